package routes

import (
	"backend/config"
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter(settings *config.Settings) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestID())

	// one backend per process, shared by insights and chat; nil when the
	// API key is not configured
	var backend services.InsightBackend
	if g := services.NewGeminiBackend(settings.GeminiAPIKey, settings.GeminiModel); g != nil {
		backend = g
	}

	deviceSvc := services.NewDeviceService(config.DB)
	usageSvc := services.NewUsageService(config.DB, deviceSvc)
	analyticsSvc := services.NewAnalyticsService(config.DB)
	insightSvc := services.NewInsightService(backend, settings.Currency)
	chatSvc := services.NewChatService(backend)

	deviceCtl := controllers.NewDeviceController(deviceSvc)
	usageCtl := controllers.NewUsageController(usageSvc, deviceSvc, analyticsSvc)
	insightCtl := controllers.NewInsightController(analyticsSvc, insightSvc)
	chatCtl := controllers.NewChatController(chatSvc)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
	}

	// Protected device + usage routes
	devices := r.Group("/devices")
	devices.Use(middlewares.AuthMiddleware())
	{
		devices.POST("", deviceCtl.Create)
		devices.GET("", deviceCtl.List)
		devices.DELETE("/:id", deviceCtl.Delete)

		devices.PUT("/:id/usage", usageCtl.RecordToday)
		devices.POST("/:id/usage", usageCtl.RecordForDate)
		devices.GET("/:id/usage", usageCtl.GetWeekly)
	}

	// Protected insight + chat routes
	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/insights", insightCtl.Get)
		api.POST("/chat", chatCtl.Chat)
	}

	return r
}
