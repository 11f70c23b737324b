package handlers

import (
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/services"
	"github.com/Prithwi32/vidyastraa-exam-engine/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	reviewHandler  *ReviewHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(serviceManager.Exam(), logger),
		reviewHandler:  NewReviewHandler(serviceManager.Exam(), serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Live session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/select", hm.sessionHandler.SelectOption)
			sessions.POST("/:id/toggle", hm.sessionHandler.ToggleOption)
			sessions.POST("/:id/blank", hm.sessionHandler.SetBlankText)
			sessions.POST("/:id/review-flag", hm.sessionHandler.ToggleReview)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/:id/escape", hm.sessionHandler.Escape)
			sessions.POST("/:id/escape/resolve", hm.sessionHandler.ResolveEscape)
			sessions.POST("/:id/submit", hm.sessionHandler.Submit)
			sessions.GET("/:id/time-remaining", hm.sessionHandler.TimeRemaining)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		{
			reviews.GET("/:result_id", hm.reviewHandler.GetReview)
			reviews.GET("/:result_id/export", hm.reviewHandler.ExportReview)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exam-engine",
		})
	})
}
