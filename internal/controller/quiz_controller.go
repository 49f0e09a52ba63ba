package controller

import (
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// QuestionRequest true_false 题不传 options 时默认为 True/False
// swagger:model QuestionRequest
type QuestionRequest struct {
	Text          string   `json:"text" binding:"required"`
	QuestionType  string   `json:"questionType" binding:"required,oneof=multiple_choice true_false"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Points        int      `json:"points" binding:"min=0"`
}

// QuizRequest swagger:model QuizRequest
type QuizRequest struct {
	Title        string            `json:"title" binding:"required,max=200"`
	Description  string            `json:"description"`
	TimeLimit    int               `json:"timeLimit" binding:"min=0"`
	PassingScore *int              `json:"passingScore" binding:"omitempty,min=0,max=100"`
	Questions    []QuestionRequest `json:"questions" binding:"dive"`
}

// AttemptRequest answers 的 key 为题目 ID
// swagger:model AttemptRequest
type AttemptRequest struct {
	Answers   map[uint]string `json:"answers"`
	StartedAt *time.Time      `json:"startedAt"`
}

func (r QuestionRequest) input() service.QuestionInput {
	return service.QuestionInput{
		Text:          r.Text,
		QuestionType:  model.QuestionType(r.QuestionType),
		Options:       r.Options,
		CorrectAnswer: r.CorrectAnswer,
		Points:        r.Points,
	}
}

// CreateQuiz godoc
// @Summary 新增测验
// @Tags 测验
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "章节ID"
// @Param body body QuizRequest true "测验与题目"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/modules/{id}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	moduleID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	in := service.QuizInput{
		Title:        req.Title,
		Description:  req.Description,
		TimeLimit:    req.TimeLimit,
		PassingScore: req.PassingScore,
	}
	for _, q := range req.Questions {
		in.Questions = append(in.Questions, q.input())
	}

	quiz, err := c.QuizService.CreateQuiz(ctx.Request.Context(), claims.UserID, moduleID, in)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// AddQuestion godoc
// @Summary 新增题目
// @Tags 测验
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "测验ID"
// @Param body body QuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	quizID, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuizService.AddQuestion(ctx.Request.Context(), claims.UserID, quizID, req.input())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// GetQuiz godoc
// @Summary 测验详情
// @Description 学生看到的题目不包含正确答案
// @Tags 测验
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.QuizService.GetQuiz(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// SubmitAttempt godoc
// @Summary 提交测验
// @Tags 测验
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "测验ID"
// @Param body body AttemptRequest true "作答"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Failure 403 {object} util.Response "未报名"
// @Router /api/quizzes/{id}/attempts [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req AttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var startedAt time.Time
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}

	attempt, err := c.QuizService.SubmitAttempt(ctx.Request.Context(), claims.UserID, id, req.Answers, startedAt)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// ListAttempts godoc
// @Summary 我的测验记录
// @Tags 测验
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	items, err := c.QuizService.ListAttempts(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
