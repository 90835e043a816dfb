package controller

import (
	"skillpath_backend/internal/service"
	"skillpath_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Service *service.ProgressService
}

func NewProgressController(svc *service.ProgressService) *ProgressController {
	return &ProgressController{Service: svc}
}

// @Summary 获取路线图进度（按周细分）
// @Tags 进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "路线图ID"
// @Success 200 {object} util.Response{data=model.RoadmapProgressView}
// @Failure 404 {object} util.Response "路线图不存在"
// @Router /api/roadmaps/{id}/progress [get]
func (c *ProgressController) RoadmapProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.Service.RoadmapProgress(ctx, user.UserID, user.IsAdmin, ctx.Param("id"))
	if err != nil {
		util.DataError(ctx, err)
		return
	}

	util.Success(ctx, view)
}
