package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录，课程详情可选认证)
	a.registerPublicRoutes(router, c, s)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret, s.auth), middleware.ActivityMiddleware(repos.user))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 讲师相关接口
		a.registerInstructorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, s *services) {
	tryAuth := middleware.TryAuthMiddleware(a.Config.JWT.Secret, s.auth)

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/categories", c.course.Categories)
		public.GET("/courses/:id", tryAuth, c.course.GetCourse)
		public.GET("/courses/:id/modules", c.course.ListModules)

		public.GET("/certificates/verify/:number", c.certificate.VerifyCertificate)
	}
}

func (a *App) registerStudentRoutes(r *gin.RouterGroup, c *controllers) {
	r.POST("/logout", c.auth.Logout)
	r.GET("/profile", c.auth.Profile)

	// 报名与进度
	r.POST("/courses/:id/enroll", c.course.Enroll)
	r.GET("/enrollments", c.course.MyEnrollments)
	r.GET("/courses/:id/progress", c.progress.GetCourseProgress)
	r.GET("/courses/:id/progress/history", c.progress.History)
	r.GET("/progress", c.progress.MyProgress)

	// 内容
	r.GET("/contents/:id", c.content.ViewContent)
	r.POST("/contents/:id/complete", c.content.CompleteContent)

	// 证书
	r.POST("/courses/:id/certificate", c.certificate.IssueCertificate)
	r.GET("/courses/:id/certificate", c.certificate.GetCourseCertificate)
	r.GET("/certificates", c.certificate.MyCertificates)
	r.GET("/certificates/:id/download", c.certificate.DownloadCertificate)

	// 测验
	r.GET("/quizzes/:id", c.quiz.GetQuiz)
	r.POST("/quizzes/:id/attempts", c.quiz.SubmitAttempt)
	r.GET("/quizzes/:id/attempts", c.quiz.ListAttempts)

	// 作业
	r.GET("/assignments/:id", c.assignment.GetAssignment)
	r.POST("/assignments/:id/submissions", c.assignment.Submit)
	r.GET("/assignments/:id/submissions/mine", c.assignment.MySubmissions)

	// 讨论区
	r.GET("/courses/:id/threads", c.forum.ListThreads)
	r.POST("/courses/:id/threads", c.forum.CreateThread)
	r.GET("/threads/:id", c.forum.GetThread)
	r.POST("/threads/:id/posts", c.forum.Reply)
}

func (a *App) registerInstructorRoutes(r *gin.RouterGroup, c *controllers) {
	instructor := r.Group("")
	instructor.Use(middleware.InstructorMiddleware())
	{
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/thumbnail", c.course.UploadThumbnail)

		instructor.POST("/courses/:id/modules", c.course.CreateModule)
		instructor.PUT("/modules/:id", c.course.UpdateModule)
		instructor.DELETE("/modules/:id", c.course.DeleteModule)

		instructor.POST("/modules/:id/contents", c.content.CreateContent)
		instructor.PUT("/contents/:id", c.content.UpdateContent)
		instructor.DELETE("/contents/:id", c.content.DeleteContent)

		instructor.POST("/modules/:id/quizzes", c.quiz.CreateQuiz)
		instructor.POST("/quizzes/:id/questions", c.quiz.AddQuestion)

		instructor.POST("/modules/:id/assignments", c.assignment.CreateAssignment)
		instructor.GET("/assignments/:id/submissions", c.assignment.ListSubmissions)
		instructor.PUT("/submissions/:id/grade", c.assignment.GradeSubmission)
	}
}
