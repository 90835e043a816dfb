package model

import (
	"gorm.io/datatypes"
)

type RoadmapStatus string

const (
	RoadmapActive   RoadmapStatus = "active"
	RoadmapArchived RoadmapStatus = "archived"
)

// Roadmap 用户目标生成的多周学习路线图
// swagger:model Roadmap
type Roadmap struct {
	UUIDBase
	UserID       uint           `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Goal         string         `gorm:"type:text;not null" json:"goal"` // 生成时的学习目标原文
	Title        string         `gorm:"size:255;not null" json:"title"`
	Summary      string         `gorm:"type:text" json:"summary"`
	Weeks        datatypes.JSON `gorm:"type:json" json:"weeks"` // 按周分组的主题（生成结果原样保留）
	TotalWeeks   int            `gorm:"default:0" json:"totalWeeks"`
	TotalLessons int            `gorm:"default:0" json:"totalLessons"`
	Model        string         `gorm:"size:100" json:"model"` // 生成该路线图的模型
	Status       RoadmapStatus  `gorm:"type:enum('active','archived');default:'active'" json:"status"`

	Lessons []Lesson `gorm:"foreignKey:RoadmapID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// RoadmapWeek Weeks JSON 列的结构（lessons 行由 topics 派生）
type RoadmapWeek struct {
	Week   int            `json:"week"`
	Theme  string         `json:"theme"`
	Topics []RoadmapTopic `json:"topics"`
}

type RoadmapTopic struct {
	Title            string `json:"title"`
	Objective        string `json:"objective"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}
