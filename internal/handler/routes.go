package handler

import (
	"github.com/fiskal-app/fiskal-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware echo.MiddlewareFunc,
	authHandler *AuthHandler,
	categoryHandler *CategoryHandler,
	transactionHandler *TransactionHandler,
	summaryHandler *SummaryHandler,
	attachmentHandler *AttachmentHandler,
	websocketHandler *WebSocketHandler,
) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate(), rateLimitMiddleware)
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.PUT("/me", authHandler.UpdateProfile)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate(), rateLimitMiddleware)
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), rateLimitMiddleware)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/month/:year/:month", transactionHandler.GetMonth)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/attachments", attachmentHandler.UploadAttachment)
	transactions.GET("/:id/attachments", attachmentHandler.GetAttachments)

	// Attachment routes (protected)
	attachments := api.Group("/attachments")
	attachments.Use(authMiddleware.Authenticate(), rateLimitMiddleware)
	attachments.GET("/:id/download", attachmentHandler.GetDownloadURL)
	attachments.DELETE("/:id", attachmentHandler.DeleteAttachment)

	// Summary routes (protected)
	summary := api.Group("/summary")
	summary.Use(authMiddleware.Authenticate(), rateLimitMiddleware)
	summary.GET("/monthly/:year/:month", summaryHandler.GetMonthlySummary)
	summary.GET("/pending", summaryHandler.GetPendingSummary)
	summary.GET("/calendar/:year/:month", summaryHandler.GetCalendar)

	// WebSocket endpoint authenticates via query token, not the auth middleware
	e.GET("/ws", websocketHandler.HandleWS)
}
