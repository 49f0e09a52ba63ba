package controller

import (
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService     *service.CourseService
	EnrollmentService *service.EnrollmentService
	CompletionService *service.CompletionService
}

func NewCourseController(courseService *service.CourseService, enrollmentService *service.EnrollmentService, completionService *service.CompletionService) *CourseController {
	return &CourseController{
		CourseService:     courseService,
		EnrollmentService: enrollmentService,
		CompletionService: completionService,
	}
}

// CourseRequest 创建或更新课程
// swagger:model CourseRequest
type CourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"max=100"`
}

// ModuleRequest 创建或更新章节，order 为 0 时追加到末尾
// swagger:model ModuleRequest
type ModuleRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Order       int    `json:"order" binding:"min=0"`
}

// ListCourses godoc
// @Summary 课程列表
// @Tags 课程
// @Produce json
// @Param category query string false "分类"
// @Param search query string false "标题或简介关键字"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page := util.QueryInt(ctx, "page", 1)
	limit := util.QueryInt(ctx, "limit", 12)

	courses, total, err := c.CourseService.ListCourses(ctx.Request.Context(), repository.CourseFilter{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	}, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Categories godoc
// @Summary 课程分类
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/courses/categories [get]
func (c *CourseController) Categories(ctx *gin.Context) {
	categories, err := c.CourseService.Categories(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// GetCourse godoc
// @Summary 课程详情
// @Description 登录用户额外返回报名状态和已完成的内容 ID
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.CourseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	resp := gin.H{
		"course":              course,
		"enrolled":            false,
		"completedContentIds": []uint{},
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		if _, err := c.EnrollmentService.Get(ctx.Request.Context(), claims.UserID, id); err == nil {
			resp["enrolled"] = true
			ids, err := c.CompletionService.CompletedContentIDs(ctx.Request.Context(), claims.UserID, id)
			if err != nil {
				util.HandleError(ctx, err)
				return
			}
			resp["completedContentIds"] = ids
		}
	}

	util.Success(ctx, resp)
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Router /api/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.CreateCourse(ctx.Request.Context(), claims.UserID, claims.IsInstructor, service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.UpdateCourse(ctx.Request.Context(), claims.UserID, id, service.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 同时删除章节、内容、测验和作业；报名与证书保留
// @Tags 课程
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.DeleteCourse(ctx.Request.Context(), claims.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadThumbnail godoc
// @Summary 上传课程封面
// @Tags 课程
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "课程ID"
// @Param file formData file true "jpg/png/gif 图片"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	up, closeFn, err := openUpload(header)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer closeFn()

	course, err := c.CourseService.SetThumbnail(ctx.Request.Context(), claims.UserID, id, up.Filename, up.Reader)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Enroll godoc
// @Summary 报名课程
// @Description 重复报名返回已有记录
// @Tags 报名
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment} "新报名"
// @Success 200 {object} util.Response{data=model.Enrollment} "已报名"
// @Failure 403 {object} util.Response "讲师不能报名自己的课程"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	enrollment, created, err := c.EnrollmentService.Enroll(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, enrollment)
		return
	}
	util.Success(ctx, enrollment)
}

// MyEnrollments godoc
// @Summary 我的报名
// @Tags 报名
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *CourseController) MyEnrollments(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}

	items, err := c.EnrollmentService.ListForStudent(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// ListModules godoc
// @Summary 课程章节
// @Tags 章节
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/courses/{id}/modules [get]
func (c *CourseController) ListModules(ctx *gin.Context) {
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	modules, err := c.CourseService.ListModules(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// CreateModule godoc
// @Summary 新增章节
// @Tags 章节
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param body body ModuleRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Failure 409 {object} util.Response "order 已被占用"
// @Router /api/courses/{id}/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.AddModule(ctx.Request.Context(), claims.UserID, id, service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// UpdateModule godoc
// @Summary 更新章节
// @Tags 章节
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "章节ID"
// @Param body body ModuleRequest true "章节信息"
// @Success 200 {object} util.Response{data=model.Module}
// @Router /api/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.UpdateModule(ctx.Request.Context(), claims.UserID, id, service.ModuleInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary 删除章节
// @Tags 章节
// @Security ApiKeyAuth
// @Param id path int true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CourseService.DeleteModule(ctx.Request.Context(), claims.UserID, id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
