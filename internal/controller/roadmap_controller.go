package controller

import (
	"skillpath_backend/internal/model"
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RoadmapController struct {
	Service *service.RoadmapService
}

func NewRoadmapController(svc *service.RoadmapService) *RoadmapController {
	return &RoadmapController{Service: svc}
}

// ClarifyingQuestionsRequest 澄清问题请求
type ClarifyingQuestionsRequest struct {
	Goal string `json:"goal" binding:"required"`
}

// @Summary 根据学习目标生成澄清问题
// @Tags 路线图
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ClarifyingQuestionsRequest true "学习目标"
// @Success 200 {object} util.Response{data=[]model.ClarifyingQuestion}
// @Failure 429 {object} util.Response "AI服务繁忙"
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/roadmaps/questions [post]
func (c *RoadmapController) ClarifyingQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ClarifyingQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	questions, err := c.Service.ClarifyingQuestions(ctx, req.Goal)
	if err != nil {
		util.AIError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

// CreateRoadmapRequest 生成路线图请求，answers 为澄清问题的回答
type CreateRoadmapRequest struct {
	Goal    string                   `json:"goal" binding:"required"`
	Answers []model.ClarifyingAnswer `json:"answers"`
}

// @Summary 生成学习路线图
// @Tags 路线图
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoadmapRequest true "学习目标与澄清回答"
// @Success 201 {object} util.Response{data=model.Roadmap}
// @Failure 429 {object} util.Response "AI服务繁忙"
// @Failure 502 {object} util.Response "AI服务不可用"
// @Router /api/roadmaps [post]
func (c *RoadmapController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateRoadmapRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	roadmap, err := c.Service.Create(ctx, user.UserID, req.Goal, req.Answers)
	if err != nil {
		util.AIError(ctx, err)
		return
	}

	util.Created(ctx, roadmap)
}

// @Summary 获取当前用户的路线图列表
// @Tags 路线图
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Roadmap}
// @Router /api/roadmaps [get]
func (c *RoadmapController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roadmaps, err := c.Service.List(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, roadmaps)
}

// @Summary 获取路线图详情（含课程列表）
// @Tags 路线图
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response "路线图不存在"
// @Router /api/roadmaps/{id} [get]
func (c *RoadmapController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	roadmap, err := c.Service.Get(user.UserID, user.IsAdmin, ctx.Param("id"))
	if err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, roadmap)
}

// UpdateRoadmapStatusRequest 路线图状态更新请求
type UpdateRoadmapStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active archived"`
}

// @Summary 更新路线图状态
// @Tags 路线图
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Param body body UpdateRoadmapStatusRequest true "目标状态"
// @Success 200 {object} util.Response{data=model.Roadmap}
// @Failure 404 {object} util.Response "路线图不存在"
// @Router /api/roadmaps/{id}/status [patch]
func (c *RoadmapController) SetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req UpdateRoadmapStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	roadmap, err := c.Service.SetStatus(user.UserID, user.IsAdmin, ctx.Param("id"), model.RoadmapStatus(req.Status))
	if err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, roadmap)
}

// @Summary 删除路线图及其全部课程和进度
// @Tags 路线图
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "路线图不存在"
// @Router /api/roadmaps/{id} [delete]
func (c *RoadmapController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.Delete(ctx, user.UserID, user.IsAdmin, ctx.Param("id")); err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取全部用户的路线图列表
// @Tags 管理端
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/roadmaps [get]
func (c *RoadmapController) ListAll(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	roadmaps, total, err := c.Service.ListAll(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  roadmaps,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
