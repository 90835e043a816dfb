package app

import (
	"skillpath_backend/docs"
	"skillpath_backend/internal/config"
	"skillpath_backend/internal/middleware"

	"skillpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.auth.UpdateProfile)
	rg.POST("/profile/avatar", c.auth.UploadAvatar)

	rg.GET("/dashboard", c.dashboard.GetDashboard)

	// 路线图
	rg.POST("/roadmaps/questions", c.roadmap.ClarifyingQuestions)
	rg.POST("/roadmaps", c.roadmap.Create)
	rg.GET("/roadmaps", c.roadmap.List)
	rg.GET("/roadmaps/:id", c.roadmap.Get)
	rg.PATCH("/roadmaps/:id/status", c.roadmap.SetStatus)
	rg.DELETE("/roadmaps/:id", c.roadmap.Delete)
	rg.GET("/roadmaps/:id/lessons", c.lesson.ListForRoadmap)
	rg.GET("/roadmaps/:id/progress", c.progress.RoadmapProgress)

	// 课程
	rg.GET("/lessons/:id", c.lesson.Get)
	rg.POST("/lessons/:id/content", c.lesson.Content)
	rg.POST("/lessons/:id/complete", c.lesson.Complete)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.AdminMiddleware())
	{
		admin.GET("/users", c.user.GetUsers)
		admin.GET("/users/:id", c.user.GetUser)
		admin.POST("/users/:id/disable", c.user.DisableUser)
		admin.GET("/stats", c.user.GetStats)
		admin.GET("/roadmaps", c.roadmap.ListAll)
	}
}
