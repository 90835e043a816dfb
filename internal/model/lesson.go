package model

import (
	"gorm.io/datatypes"
)

// Lesson 路线图中单个主题对应的课程，内容由 AI 按需生成
// swagger:model Lesson
type Lesson struct {
	UUIDBase
	RoadmapID        string         `gorm:"index;type:varchar(36);not null" json:"roadmapId"`
	WeekNumber       int            `gorm:"not null" json:"weekNumber"`
	Position         int            `gorm:"not null" json:"position"` // 周内顺序
	Title            string         `gorm:"size:255;not null" json:"title"`
	Objective        string         `gorm:"type:text" json:"objective"`
	EstimatedMinutes int            `gorm:"default:0" json:"estimatedMinutes"`
	Content          datatypes.JSON `gorm:"type:json" json:"content,omitempty"` // 生成后的持久副本，未生成时为空
	ContentModel     string         `gorm:"size:100" json:"contentModel"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonContent Content JSON 列的结构
type LessonContent struct {
	Sections     []LessonSection `json:"sections"`
	KeyTakeaways []string        `json:"key_takeaways"`
	Quiz         []QuizQuestion  `json:"quiz"`
}

type LessonSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}
