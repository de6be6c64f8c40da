package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"pm_prep_backend/internal/config"
	"pm_prep_backend/internal/middleware"
	"pm_prep_backend/internal/model"
	"pm_prep_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/auth/google", c.auth.GoogleLogin)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 练习
		authGroup.GET("/questions/next", c.question.NextQuestion)
		authGroup.POST("/questions/:id/example", c.question.GetExampleAnswer)
		authGroup.POST("/attempts", c.attempt.Submit)
		authGroup.GET("/attempts", c.attempt.List)
		authGroup.GET("/attempts/:id", c.attempt.Get)
		authGroup.POST("/attempts/:id/pushback", c.attempt.Pushback)

		// 统计
		authGroup.GET("/stats", c.analytics.GetStats)
		authGroup.GET("/analytics/growth-areas", c.analytics.GetGrowthAreas)
		authGroup.GET("/analytics/percentile", c.analytics.GetPercentile)
		authGroup.GET("/analytics/rating-history", c.analytics.GetRatingHistory)

		// 草稿
		authGroup.GET("/draft", c.draft.Get)
		authGroup.PUT("/draft", c.draft.Save)
		authGroup.DELETE("/draft", c.draft.Clear)
	}

	// 管理员路由
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.POST("/questions", c.admin.CreateQuestion)
		adminGroup.POST("/calibrate", c.admin.Recalibrate)
	}
}
