package llm

import (
	"fmt"
	"strings"
)

// StripFences 去掉模型习惯性包裹的 markdown 代码围栏。
// 开围栏整行丢弃，语言标签随模型心情变化（json、JSON、javascript……），不逐一枚举
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl != -1 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ExtractObject 定位文本中最外层的 {...} 并返回
func ExtractObject(text string) (string, error) {
	return extractBalanced(StripFences(text), '{', '}')
}

// ExtractArray 定位文本中最外层的 [...] 并返回
func ExtractArray(text string) (string, error) {
	return extractBalanced(StripFences(text), '[', ']')
}

// extractBalanced 从第一个开括号起做深度扫描，跳过字符串字面量内的括号
func extractBalanced(text string, open, end byte) (string, error) {
	start := strings.IndexByte(text, open)
	if start == -1 {
		return "", NewMalformedError(text, fmt.Errorf("no %q found", string(open)))
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case end:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", NewMalformedError(text, fmt.Errorf("unbalanced %q", string(open)))
}
