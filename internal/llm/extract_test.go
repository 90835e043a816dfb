package llm

import (
	"errors"
	"testing"
)

func TestExtractObject_Fenced(t *testing.T) {
	text := "Here is the roadmap:\n```json\n{\"title\":\"Learn Go\",\"weeks\":[]}\n```\nGood luck!"
	got, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"title":"Learn Go","weeks":[]}`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestExtractObject_Plain(t *testing.T) {
	text := `Sure! {"a":{"b":1},"c":2} hope that helps`
	got, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"a":{"b":1},"c":2}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractObject_BracesInsideStrings(t *testing.T) {
	text := `{"body":"if (x) { return; } else }","next":1}`
	got, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != text {
		t.Fatalf("expected full object back, got %q", got)
	}
}

func TestExtractObject_EscapedQuote(t *testing.T) {
	text := `noise {"say":"he said \"hi\" {","n":2} noise`
	got, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"say":"he said \"hi\" {","n":2}` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractArray(t *testing.T) {
	text := "```json\n[{\"question\":\"Q1\"},{\"question\":\"Q2\"}]\n```"
	got, err := ExtractArray(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `[{"question":"Q1"},{"question":"Q2"}]` {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestExtractObject_Missing(t *testing.T) {
	_, err := ExtractObject("no json here at all")
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got: %T (%v)", err, err)
	}
}

func TestExtractObject_Unbalanced(t *testing.T) {
	_, err := ExtractObject(`{"title":"cut off`)
	if !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got: %T (%v)", err, err)
	}
	var me *MalformedError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedError, got: %T", err)
	}
	if me.Sample == "" {
		t.Fatal("expected sample to be captured")
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"```javascript\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n[1,2]\n```", `[1,2]`},
		{`{"a":1}`, `{"a":1}`},
		{"  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, c := range cases {
		if got := StripFences(c.in); got != c.want {
			t.Errorf("StripFences(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
