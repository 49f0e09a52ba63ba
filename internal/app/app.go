package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/middleware"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracer *sdktrace.TracerProvider
	// ctx 覆盖后台协程（配置监听、限流清理）的生命周期
	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	content     *repository.ContentRepository
	enrollment  *repository.EnrollmentRepository
	completion  *repository.CompletionRepository
	certificate *repository.CertificateRepository
	quiz        *repository.QuizRepository
	assignment  *repository.AssignmentRepository
	forum       *repository.ForumRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	course      *service.CourseService
	enrollment  *service.EnrollmentService
	content     *service.ContentService
	completion  *service.CompletionService
	progress    *service.ProgressService
	certificate *service.CertificateService
	quiz        *service.QuizService
	submission  *service.SubmissionService
	forum       *service.ForumService
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	content     *controller.ContentController
	progress    *controller.ProgressController
	certificate *controller.CertificateController
	quiz        *controller.QuizController
	assignment  *controller.AssignmentController
	forum       *controller.ForumController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		content:     repository.NewContentRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		completion:  repository.NewCompletionRepository(db),
		certificate: repository.NewCertificateRepository(db),
		quiz:        repository.NewQuizRepository(db),
		assignment:  repository.NewAssignmentRepository(db),
		forum:       repository.NewForumRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{}

	renderer, err := service.NewCertificateRenderer(cfg.Certificate.Format, cfg.Certificate.FontPath)
	if err != nil {
		return nil, err
	}

	// 未启用 Redis 时 token 吊销不生效，登出只由客户端丢弃 token
	var denylist service.TokenDenylist
	if rdb != nil {
		denylist = service.NewRedisTokenDenylist(rdb)
	}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg, denylist)
	s.course = service.NewCourseService(repos.course, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.course, repos.enrollment)
	s.completion = service.NewCompletionService(db, repos.content, repos.enrollment, repos.completion)
	s.progress = service.NewProgressService(repos.course, repos.content, repos.completion, repos.enrollment)
	s.content = service.NewContentService(repos.content, repos.course, s.course, s.completion, s.storage)
	s.certificate = service.NewCertificateService(
		db,
		&cfg.Certificate,
		repos.certificate,
		repos.enrollment,
		repos.course,
		repos.user,
		s.progress,
		s.storage,
		renderer,
	)
	s.quiz = service.NewQuizService(repos.quiz, s.course, s.enrollment)
	s.submission = service.NewSubmissionService(repos.assignment, s.course, s.enrollment, s.storage)
	s.forum = service.NewForumService(repos.forum, s.enrollment)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		course:      controller.NewCourseController(s.course, s.enrollment, s.completion),
		content:     controller.NewContentController(s.content, s.completion),
		progress:    controller.NewProgressController(s.progress),
		certificate: controller.NewCertificateController(s.certificate),
		quiz:        controller.NewQuizController(s.quiz),
		assignment:  controller.NewAssignmentController(s.submission),
		forum:       controller.NewForumController(s.forum),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) prepareDatabase(cfg *config.Config) error {
	if cfg.Reset {
		logger.Log.Warn("Resetting database, all data will be dropped")
		if err := database.Reset(a.DB); err != nil {
			return err
		}
	} else if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(a.DB); err != nil {
			return err
		}
	}

	if cfg.Seed {
		if err := database.SeedSampleData(a.DB); err != nil {
			return err
		}
	}
	return nil
}

// watchConfig 配置文件变化时只热更新日志级别，其余配置需要重启
func (a *App) watchConfig() {
	go func() {
		err := configwatcher.WatchConfig(a.ctx, "configs", func(cfg *config.Config) {
			logger.ApplyMode(cfg.Server.Mode)
			logger.Log.Info("Config reloaded", zap.String("mode", cfg.Server.Mode))
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)
	util.RegisterValidators()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.prepareDatabase(cfg); err != nil {
		logger.Log.Fatal("Failed to prepare database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return app
	}

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			logger.Log.Warn("Redis unavailable, token revocation disabled", zap.Error(err))
		} else {
			app.Redis = rdb
		}
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, app.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, services, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
