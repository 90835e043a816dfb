package model

import "time"

// LessonWithCompletion 课程列表项：课程 + 当前用户的完成状态
type LessonWithCompletion struct {
	Lesson
	Completed   bool       `json:"completed"`
	Score       int        `json:"score"`
	Total       int        `json:"total"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// WeekBreakdown 单周的完成情况
type WeekBreakdown struct {
	Week      int `json:"week"`
	Lessons   int `json:"lessons"`
	Completed int `json:"completed"`
}

// RoadmapProgressView 路线图进度：进度记录 + 按周拆分
type RoadmapProgressView struct {
	Progress UserProgress    `json:"progress"`
	Weeks    []WeekBreakdown `json:"weeks"`
}

// DashboardRoadmap 仪表盘上的路线图条目
type DashboardRoadmap struct {
	Roadmap  Roadmap       `json:"roadmap"`
	Progress *UserProgress `json:"progress,omitempty"`
}

// Dashboard 用户仪表盘
type Dashboard struct {
	Roadmaps          []DashboardRoadmap `json:"roadmaps"`
	TotalTimeMinutes  int                `json:"totalTimeMinutes"`
	OverallAccuracy   float64            `json:"overallAccuracy"`
	TotalCompleted    int                `json:"totalCompleted"`
	RecentCompletions []LessonCompletion `json:"recentCompletions"`
}

// AdminStats 管理端统计
type AdminStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalRoadmaps    int64 `json:"totalRoadmaps"`
	ActiveUsersToday int64 `json:"activeUsersToday"`
}

// ClarifyingQuestion 生成路线图前的澄清问题（不落库）
type ClarifyingQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ClarifyingAnswer 用户对澄清问题的回答，原样写进生成提示词
type ClarifyingAnswer struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// GeneratedRoadmap 模型返回的路线图结构，持久化前的中间形态
type GeneratedRoadmap struct {
	Title   string        `json:"title"`
	Summary string        `json:"summary"`
	Weeks   []RoadmapWeek `json:"weeks"`
}
