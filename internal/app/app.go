package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/controller"
	"skillpath_backend/internal/llm"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/service"
	"skillpath_backend/pkg/cache"
	"skillpath_backend/pkg/database"
	"skillpath_backend/pkg/logger"
	"skillpath_backend/pkg/monitoring"
	"skillpath_backend/pkg/security"
	"skillpath_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 进度对账的节奏：每 10 分钟重算最近半小时内有活动的进度行
const (
	reconcileInterval = 10 * time.Minute
	reconcileWindow   = 30 * time.Minute
	reconcileLimit    = 200
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	roadmap    *repository.RoadmapRepository
	lesson     *repository.LessonRepository
	completion *repository.CompletionRepository
	progress   *repository.ProgressRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	generation *service.GenerationService
	roadmap    *service.RoadmapService
	lesson     *service.LessonService
	progress   *service.ProgressService
	dashboard  *service.DashboardService
	user       *service.UserService
}

type controllers struct {
	auth      *controller.AuthController
	roadmap   *controller.RoadmapController
	lesson    *controller.LessonController
	progress  *controller.ProgressController
	dashboard *controller.DashboardController
	user      *controller.UserController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口。连接类配置（数据库、Redis）不跟随热更新，
// 只替换 App 持有的配置并通知已注册的回调
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		roadmap:    repository.NewRoadmapRepository(db),
		lesson:     repository.NewLessonRepository(db),
		completion: repository.NewCompletionRepository(db),
		progress:   repository.NewProgressRepository(db),
	}
}

// aiConfig 把全局配置映射成 llm 包自己的配置
func aiConfig(cfg *config.Config) llm.Config {
	return llm.Config{
		Provider:    cfg.AI.Provider,
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Timeout:     cfg.AI.CallTimeout(),
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	provider, err := llm.NewProvider(context.Background(), aiConfig(cfg))
	if err != nil {
		logger.Log.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	contentCache := cache.NewRedisCache(rdb)

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.generation = service.NewGenerationService(provider, cfg)
	s.roadmap = service.NewRoadmapService(repos.roadmap, repos.lesson, repos.user, s.generation, contentCache)
	s.lesson = service.NewLessonService(repos.lesson, repos.roadmap, repos.completion, repos.progress, repos.user, s.generation, contentCache)
	s.progress = service.NewProgressService(repos.progress, repos.lesson, repos.completion, repos.roadmap)
	s.dashboard = service.NewDashboardService(repos.roadmap, repos.progress, repos.completion)
	s.user = service.NewUserService(repos.user, repos.roadmap, s.storage)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, s.user),
		roadmap:   controller.NewRoadmapController(s.roadmap),
		lesson:    controller.NewLessonController(s.lesson),
		progress:  controller.NewProgressController(s.progress),
		dashboard: controller.NewDashboardController(s.dashboard),
		user:      controller.NewUserController(s.user),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 进度对账：按完成记录重算最近活跃用户的进度计数
	go func() {
		ticker := time.NewTicker(reconcileInterval)
		for range ticker.C {
			if _, err := s.progress.ReconcileRecent(reconcileWindow, reconcileLimit); err != nil {
				logger.Log.Error("progress reconcile error", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillpath-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// AI 配置热更新：重建 Provider 并替换进生成服务，重建失败时沿用旧配置
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		provider, err := llm.NewProvider(context.Background(), aiConfig(newCfg))
		if err != nil {
			logger.Log.Error("AI 配置热更新失败，沿用旧配置", zap.Error(err))
			return
		}
		services.generation.Reconfigure(provider, newCfg.AI)
		logger.Log.Info("AI 配置已热更新",
			zap.String("ai_provider", newCfg.AI.Provider),
			zap.String("ai_model", newCfg.AI.Model))
	})

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
