package controller

import (
	"time"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	SubmissionService *service.SubmissionService
}

func NewAssignmentController(submissionService *service.SubmissionService) *AssignmentController {
	return &AssignmentController{SubmissionService: submissionService}
}

// AssignmentRequest maxScore 不传时为 100
// swagger:model AssignmentRequest
type AssignmentRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	MaxScore    int        `json:"maxScore" binding:"min=0"`
}

// GradeRequest swagger:model GradeRequest
type GradeRequest struct {
	Score    *float64 `json:"score" binding:"required"`
	Feedback string   `json:"feedback"`
}

// CreateAssignment godoc
// @Summary 新增作业
// @Tags 作业
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "章节ID"
// @Param body body AssignmentRequest true "作业信息"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /api/modules/{id}/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	moduleID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.SubmissionService.CreateAssignment(ctx.Request.Context(), claims.UserID, moduleID, service.AssignmentInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxScore:    req.MaxScore,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// GetAssignment godoc
// @Summary 作业详情
// @Tags 作业
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) GetAssignment(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	a, err := c.SubmissionService.GetAssignment(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// Submit godoc
// @Summary 提交作业
// @Description multipart 表单，submissionText 与 file 至少一项
// @Tags 作业
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Param id path int true "作业ID"
// @Param submissionText formData string false "文字答案"
// @Param file formData file false "附件"
// @Success 201 {object} util.Response{data=model.Submission}
// @Router /api/assignments/{id}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	up, closeFn, err := formUpload(ctx, "file")
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer closeFn()

	sub, err := c.SubmissionService.Submit(ctx.Request.Context(), claims.UserID, id, ctx.PostForm("submissionText"), up)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// ListSubmissions godoc
// @Summary 作业提交列表（讲师）
// @Tags 作业
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	items, err := c.SubmissionService.ListForAssignment(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// MySubmissions godoc
// @Summary 我的作业提交
// @Tags 作业
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/assignments/{id}/submissions/mine [get]
func (c *AssignmentController) MySubmissions(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	items, err := c.SubmissionService.ListMine(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// GradeSubmission godoc
// @Summary 批改作业
// @Tags 作业
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "提交ID"
// @Param body body GradeRequest true "分数与评语"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id}/grade [put]
func (c *AssignmentController) GradeSubmission(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sub, err := c.SubmissionService.Grade(ctx.Request.Context(), claims.UserID, id, *req.Score, req.Feedback)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}
