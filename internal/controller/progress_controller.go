package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetCourseProgress godoc
// @Summary 课程进度
// @Description 只统计本课程的内容；课程没有内容时百分比为 0
// @Tags 进度
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetCourseProgress(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	p, err := c.ProgressService.GetCourseProgress(ctx.Request.Context(), id, claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, p.Rounded())
}

// MyProgress godoc
// @Summary 仪表盘：所有报名课程的进度
// @Tags 进度
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} util.Response{data=[]model.EnrollmentProgress}
// @Router /api/progress [get]
func (c *ProgressController) MyProgress(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}

	items, err := c.ProgressService.ListMyProgress(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	for i := range items {
		items[i].Progress = items[i].Progress.Rounded()
	}
	util.Success(ctx, items)
}

// History godoc
// @Summary 课程学习记录
// @Description 按完成时间列出该课程每个内容的完成记录
// @Tags 进度
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress/history [get]
func (c *ProgressController) History(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	items, err := c.ProgressService.History(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
