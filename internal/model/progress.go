package model

import (
	"time"
)

// UserProgress 每个用户在每个路线图上最多一条进度记录（复合唯一索引约束）
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID           uint      `gorm:"index:idx_user_roadmap,unique;type:bigint unsigned;not null" json:"userId"`
	RoadmapID        string    `gorm:"index:idx_user_roadmap,unique;type:varchar(36);not null" json:"roadmapId"`
	CompletedLessons int       `gorm:"default:0" json:"completedLessons"`
	TotalLessons     int       `gorm:"default:0" json:"totalLessons"`
	TimeSpentMinutes int       `gorm:"default:0" json:"timeSpentMinutes"`
	Accuracy         float64   `gorm:"default:0" json:"accuracy"` // 已完成课程测验的平均正确率（百分比）
	LastLessonID     string    `gorm:"type:varchar(36)" json:"lastLessonId"`
	LastActivityAt   time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastActivityAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
