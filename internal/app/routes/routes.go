package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cankurt/chatcore/internal/app/controllers"
	"github.com/cankurt/chatcore/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/refresh", ctrl.Auth.RefreshToken)
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	conversations := authenticated.Group("/conversations")
	{
		conversations.POST("", ctrl.Conversation.CreateConversation)
		conversations.GET("", ctrl.Conversation.ListConversations)
		conversations.GET("/unread", ctrl.Conversation.GetUnreadCounts)
		conversations.GET("/:id/members", ctrl.Conversation.GetMembers)
		conversations.POST("/:id/read", ctrl.Conversation.MarkMessagesAsRead)
		conversations.GET("/:id/messages", ctrl.Message.GetMessages)
		conversations.POST("/:id/messages", ctrl.Message.SendMessage)
	}

	messages := authenticated.Group("/messages")
	{
		messages.GET("/search", ctrl.Message.SearchMessages)
		messages.PUT("/:id", ctrl.Message.UpdateMessage)
		messages.DELETE("/:id", ctrl.Message.DeleteMessage)
		messages.POST("/:id/reactions", ctrl.Message.AddReaction)
		messages.DELETE("/:id/reactions", ctrl.Message.RemoveReaction)
	}

	presence := authenticated.Group("/presence")
	{
		presence.PUT("", ctrl.Presence.UpdatePresence)
		presence.GET("/:id", ctrl.Presence.GetPresence)
	}
}
