package controller

import (
	"errors"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	Service *service.LessonService
}

func NewLessonController(svc *service.LessonService) *LessonController {
	return &LessonController{Service: svc}
}

// @Summary 获取路线图下的课程列表（含完成状态）
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Success 200 {object} util.Response{data=[]model.LessonWithCompletion}
// @Failure 404 {object} util.Response "路线图不存在"
// @Router /api/roadmaps/{id}/lessons [get]
func (c *LessonController) ListForRoadmap(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessons, err := c.Service.ListForRoadmap(ctx, user.UserID, user.IsAdmin, ctx.Param("id"))
	if err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// @Summary 获取课程详情
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lesson, err := c.Service.Get(user.UserID, user.IsAdmin, ctx.Param("id"))
	if err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 获取或生成课程内容
// @Description 命中缓存或持久副本时直接返回，否则调用AI生成；force=true 强制重新生成
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param force query bool false "强制重新生成" default(false)
// @Success 200 {object} util.Response{data=model.LessonContent}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 429 {object} util.Response "AI服务繁忙"
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/lessons/{id}/content [post]
func (c *LessonController) Content(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	force := ctx.Query("force") == "true"

	content, err := c.Service.Content(ctx, user.UserID, user.IsAdmin, ctx.Param("id"), force)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) || errors.Is(err, util.ErrRoadmapNotFound) {
			util.NotFound(ctx)
		} else {
			util.AIError(ctx, err)
		}
		return
	}

	util.Success(ctx, content)
}

// CompleteLessonRequest 课程测验提交请求，answers 为题目序号到所选选项的映射
type CompleteLessonRequest struct {
	Score            int            `json:"score" binding:"min=0"`
	Total            int            `json:"total" binding:"required,min=1"`
	TimeSpentMinutes int            `json:"time_spent_minutes" binding:"min=0"`
	Answers          map[string]int `json:"answers"`
}

// @Summary 提交课程完成记录
// @Description 记录测验得分并重算路线图进度，重复提交覆盖旧成绩
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param body body CompleteLessonRequest true "测验结果"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "得分超出总分"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	completion, progress, err := c.Service.Complete(user.UserID, ctx.Param("id"), req.Score, req.Total, req.TimeSpentMinutes, req.Answers)
	if err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"completion": completion, "progress": progress})
}
