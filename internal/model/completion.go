package model

import (
	"time"

	"gorm.io/datatypes"
)

// LessonCompletion 每个用户对每节课最多一条完成记录，重复提交覆盖原记录
// swagger:model LessonCompletion
type LessonCompletion struct {
	BaseModel
	UserID           uint           `gorm:"index:idx_user_lesson,unique;type:bigint unsigned;not null" json:"userId"`
	LessonID         string         `gorm:"index:idx_user_lesson,unique;type:varchar(36);not null" json:"lessonId"`
	RoadmapID        string         `gorm:"index;type:varchar(36);not null" json:"roadmapId"`
	Score            int            `gorm:"not null" json:"score"`
	Total            int            `gorm:"not null" json:"total"`
	TimeSpentMinutes int            `gorm:"default:0" json:"timeSpentMinutes"`
	Answers          datatypes.JSON `gorm:"type:json" json:"answers"` // 题号 -> 所选选项下标
	CompletedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP(3)" json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}
