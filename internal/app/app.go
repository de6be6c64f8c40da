package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pm_prep_backend/internal/config"
	"pm_prep_backend/internal/controller"
	"pm_prep_backend/internal/middleware"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/internal/service"
	"pm_prep_backend/pkg/database"
	"pm_prep_backend/pkg/logger"
	"pm_prep_backend/pkg/monitoring"
	"pm_prep_backend/pkg/security"
	"pm_prep_backend/pkg/tracing"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user      *repository.UserRepository
	question  *repository.QuestionRepository
	attempt   *repository.AttemptRepository
	userStats *repository.UserStatsRepository
}

type services struct {
	auth        *service.AuthService
	ai          *service.AIService
	evaluation  *service.EvaluationService
	question    *service.QuestionService
	attempt     *service.AttemptService
	analytics   *service.AnalyticsService
	draft       *service.DraftService
	calibration *service.CalibrationService
}

type controllers struct {
	auth      *controller.AuthController
	question  *controller.QuestionController
	attempt   *controller.AttemptController
	analytics *controller.AnalyticsController
	draft     *controller.DraftController
	admin     *controller.AdminController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 热更新回调入口，configwatcher在配置文件变化时调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		question:  repository.NewQuestionRepository(db),
		attempt:   repository.NewAttemptRepository(db),
		userStats: repository.NewUserStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, repos.userStats, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.evaluation = service.NewEvaluationService(s.ai)
	s.question = service.NewQuestionService(repos.question, repos.attempt)
	s.attempt = service.NewAttemptService(db, repos.attempt, repos.userStats)
	s.analytics = service.NewAnalyticsService(repos.attempt, repos.userStats, rdb)
	s.draft = service.NewDraftService(rdb)
	s.calibration = service.NewCalibrationService(repos.attempt, repos.question)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		question:  controller.NewQuestionController(s.question, s.evaluation, s.attempt),
		attempt:   controller.NewAttemptController(s.question, s.evaluation, s.attempt, s.draft),
		analytics: controller.NewAnalyticsController(s.analytics),
		draft:     controller.NewDraftController(s.draft),
		admin:     controller.NewAdminController(repos.question, s.calibration),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 每日难度校准
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			adjusted, err := s.calibration.RecalibrateAll()
			if err != nil {
				logger.Log.Error("Scheduled calibration failed", zap.Error(err))
				continue
			}
			logger.Log.Info("Scheduled calibration finished", zap.Int("adjusted", adjusted))
		}
	}()

	// 定期预热百分位排名用的评分列表缓存
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.analytics.RefreshRatingsCache(ctx); err != nil {
				logger.Log.Warn("Ratings cache refresh failed", zap.Error(err))
			}
			cancel()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != "release" || cfg.ForceMigrate)
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
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("pm-prep-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

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

	log.Println("Server exiting")
}
