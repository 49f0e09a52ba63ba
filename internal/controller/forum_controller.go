package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ForumController struct {
	ForumService *service.ForumService
}

func NewForumController(forumService *service.ForumService) *ForumController {
	return &ForumController{ForumService: forumService}
}

// ThreadRequest swagger:model ThreadRequest
type ThreadRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

// ReplyRequest swagger:model ReplyRequest
type ReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListThreads godoc
// @Summary 课程讨论列表
// @Tags 讨论区
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.ForumThread}
// @Router /api/courses/{id}/threads [get]
func (c *ForumController) ListThreads(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	courseID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	items, err := c.ForumService.ListThreads(ctx.Request.Context(), claims.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// CreateThread godoc
// @Summary 发起讨论
// @Tags 讨论区
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param body body ThreadRequest true "标题与内容"
// @Success 201 {object} util.Response{data=model.ForumThread}
// @Router /api/courses/{id}/threads [post]
func (c *ForumController) CreateThread(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	courseID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req ThreadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	thread, err := c.ForumService.CreateThread(ctx.Request.Context(), claims.UserID, courseID, req.Title, req.Content)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, thread)
}

// GetThread godoc
// @Summary 讨论详情
// @Tags 讨论区
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "讨论ID"
// @Success 200 {object} util.Response{data=model.ForumThread}
// @Router /api/threads/{id} [get]
func (c *ForumController) GetThread(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	thread, err := c.ForumService.GetThread(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, thread)
}

// Reply godoc
// @Summary 回复讨论
// @Tags 讨论区
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "讨论ID"
// @Param body body ReplyRequest true "回复内容"
// @Success 201 {object} util.Response{data=model.ForumPost}
// @Router /api/threads/{id}/posts [post]
func (c *ForumController) Reply(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req ReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.ForumService.Reply(ctx.Request.Context(), claims.UserID, id, req.Content)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, post)
}
