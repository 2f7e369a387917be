package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/app/services"
	"github.com/cankurt/chatcore/internal/middleware"
)

// Controllers aggregates all HTTP controllers
type Controllers struct {
	Auth         *AuthController
	Conversation *ConversationController
	Message      *MessageController
	Presence     *PresenceController
}

// NewControllers creates all controllers backed by the given services
func NewControllers(svc *services.Services) *Controllers {
	return &Controllers{
		Auth:         NewAuthController(svc.Auth),
		Conversation: NewConversationController(svc.Conversation),
		Message:      NewMessageController(svc.Message),
		Presence:     NewPresenceController(svc.Presence),
	}
}

// parseIDParam parses a positive int64 path parameter, writing a 400
// response on failure
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")))
		return 0, false
	}
	return id, true
}

// requireUserID extracts the authenticated user id, writing a 401 response
// when the request context carries none
func requireUserID(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return 0, false
	}
	return userID, true
}
