package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService    *service.ContentService
	CompletionService *service.CompletionService
}

func NewContentController(contentService *service.ContentService, completionService *service.CompletionService) *ContentController {
	return &ContentController{
		ContentService:    contentService,
		CompletionService: completionService,
	}
}

// ContentRequest 可以是 JSON，也可以是带 file 字段的 multipart 表单
// swagger:model ContentRequest
type ContentRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	ContentType string `json:"contentType" form:"contentType" binding:"required,contenttype"`
	ContentURL  string `json:"contentUrl" form:"contentUrl" binding:"omitempty,max=500"`
	ContentText string `json:"contentText" form:"contentText"`
	Order       int    `json:"order" form:"order" binding:"min=0"`
}

// ContentUpdateRequest 空字段保持原值
// swagger:model ContentUpdateRequest
type ContentUpdateRequest struct {
	Title       string `json:"title" binding:"max=200"`
	ContentURL  string `json:"contentUrl" binding:"omitempty,max=500"`
	ContentText string `json:"contentText"`
	Order       int    `json:"order" binding:"min=0"`
}

// CreateContent godoc
// @Summary 新增内容
// @Description 视频上传后会尝试用 ffmpeg 探测时长
// @Tags 内容
// @Security ApiKeyAuth
// @Accept json,mpfd
// @Produce json
// @Param id path int true "章节ID"
// @Param body body ContentRequest true "内容信息"
// @Success 201 {object} util.Response{data=model.Content}
// @Router /api/modules/{id}/contents [post]
func (c *ContentController) CreateContent(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	moduleID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req ContentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	up, closeFn, err := formUpload(ctx, "file")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer closeFn()

	content, err := c.ContentService.AddContent(ctx.Request.Context(), claims.UserID, moduleID, service.ContentInput{
		Title:       req.Title,
		ContentType: model.ContentType(req.ContentType),
		ContentURL:  req.ContentURL,
		ContentText: req.ContentText,
		Order:       req.Order,
	}, up)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, content)
}

// UpdateContent godoc
// @Summary 更新内容
// @Tags 内容
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "内容ID"
// @Param body body ContentUpdateRequest true "内容信息"
// @Success 200 {object} util.Response{data=model.Content}
// @Router /api/contents/{id} [put]
func (c *ContentController) UpdateContent(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req ContentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	content, err := c.ContentService.UpdateContent(ctx.Request.Context(), claims.UserID, id, service.ContentInput{
		Title:       req.Title,
		ContentURL:  req.ContentURL,
		ContentText: req.ContentText,
		Order:       req.Order,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, content)
}

// DeleteContent godoc
// @Summary 删除内容
// @Description 同时删除所有学生对该内容的完成记录
// @Tags 内容
// @Security ApiKeyAuth
// @Param id path int true "内容ID"
// @Success 200 {object} util.Response
// @Router /api/contents/{id} [delete]
func (c *ContentController) DeleteContent(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.ContentService.DeleteContent(ctx.Request.Context(), claims.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ViewContent godoc
// @Summary 查看内容
// @Description 已报名学生首次查看时记录完成；课程讲师查看不记录
// @Tags 内容
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "内容ID"
// @Success 200 {object} util.Response{data=service.ContentView}
// @Failure 403 {object} util.Response "未报名"
// @Failure 404 {object} util.Response
// @Router /api/contents/{id} [get]
func (c *ContentController) ViewContent(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.ContentService.ViewContent(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CompleteContent godoc
// @Summary 标记内容完成
// @Description 幂等；重复调用返回 created=false
// @Tags 进度
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "内容ID"
// @Success 201 {object} util.Response{data=service.CompletionResult} "首次完成"
// @Success 200 {object} util.Response{data=service.CompletionResult} "此前已完成"
// @Failure 403 {object} util.Response "未报名"
// @Failure 404 {object} util.Response
// @Router /api/contents/{id}/complete [post]
func (c *ContentController) CompleteContent(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	res, err := c.CompletionService.RecordCompletion(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if res.Created {
		util.Created(ctx, res)
		return
	}
	util.Success(ctx, res)
}
