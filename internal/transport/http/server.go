package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "arb-dashboard/internal/app"
	"arb-dashboard/internal/bootstrap"
	"arb-dashboard/internal/transport/http/handler"
	"arb-dashboard/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	gin.SetMode(cfg.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.AccessLog(), middleware.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authService := appsvc.NewAuthService(app.Backend, appsvc.AuthOptions{
		JWTSecret:           cfg.Auth.JWTSecret,
		AdminEmails:         cfg.Auth.AdminList(),
		ValidateWithBackend: cfg.Auth.ValidateWithBackend,
		Revalidate:          time.Duration(cfg.Auth.RevalidateSeconds) * time.Second,
	})
	var usage appsvc.UsagePublisher
	if app.Usage != nil {
		usage = app.Usage
	}
	chatService := appsvc.NewChatService(app.Backend, usage, cfg.Backend.PreflightHealth)
	panelService := appsvc.NewPanelService(app.Backend)
	adminService := appsvc.NewAdminService(app.Backend)

	sessionOpts := middleware.SessionOptions{
		TokenCookie:   cfg.Auth.CookieName,
		ContextCookie: cfg.Context.CookieName,
		ContextTTL:    cfg.ContextTTL(),
		SecureCookies: cfg.App.Env != "dev",
		LoginURL:      cfg.Auth.LoginURL,
	}

	authHandler := handler.NewAuthHandler(sessionOpts)
	chatHandler := handler.NewChatHandler(chatService)
	panelHandler := handler.NewPanelHandler(panelService, chatService)
	adminHandler := handler.NewAdminHandler(adminService)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.SSOSession(app.Store, app.Locks, authService, sessionOpts))

	v1.GET("/auth/me", authHandler.Me)
	v1.POST("/auth/logout", authHandler.Logout)
	v1.GET("/status", panelHandler.Status)
	v1.GET("/faq", panelHandler.FAQ)

	chatGroup := v1.Group("/chat")
	chatGroup.GET("/session", chatHandler.GetSession)
	chatGroup.POST("/session", chatHandler.NewSession)
	chatGroup.GET("/messages", chatHandler.GetMessages)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.DELETE("/messages", chatHandler.ClearMessages)

	feedbackGroup := v1.Group("/feedback")
	feedbackGroup.POST("", panelHandler.SubmitFeedback)
	feedbackGroup.GET("/mine", panelHandler.MyFeedback)
	feedbackGroup.GET("/stats", panelHandler.FeedbackStats)

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin())
	adminGroup.POST("/refresh", adminHandler.Refresh)
	adminGroup.GET("/dashboard", adminHandler.Dashboard)
	adminGroup.GET("/users", adminHandler.Users)
	adminGroup.GET("/analytics", adminHandler.Analytics)
	adminGroup.GET("/documents", adminHandler.Documents)
	adminGroup.POST("/documents", adminHandler.AddDocument)
	adminGroup.PUT("/documents/:id/toggle-active", adminHandler.ToggleDocument)
	adminGroup.DELETE("/documents/:id", adminHandler.DeleteDocument)
	adminGroup.GET("/safety-logs", adminHandler.SafetyLogs)
	adminGroup.GET("/process-owners", adminHandler.ProcessOwners)
	adminGroup.POST("/process-owners", adminHandler.CreateProcessOwner)
	adminGroup.PUT("/process-owners/:id", adminHandler.UpdateProcessOwner)
	adminGroup.DELETE("/process-owners/:id", adminHandler.DeleteProcessOwner)

	return router
}
