package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/app/services"
	"github.com/cankurt/chatcore/internal/middleware"
)

// PresenceController handles presence endpoints
type PresenceController struct {
	presenceService services.PresenceService
}

// NewPresenceController creates a new PresenceController
func NewPresenceController(presenceService services.PresenceService) *PresenceController {
	return &PresenceController{presenceService: presenceService}
}

// UpdatePresence upserts the caller's presence
func (c *PresenceController) UpdatePresence(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.PresenceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	presence, err := c.presenceService.UpdatePresence(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, presence)
}

// GetPresence returns a user's presence
func (c *PresenceController) GetPresence(ctx *gin.Context) {
	if _, ok := requireUserID(ctx); !ok {
		return
	}

	targetID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	presence, err := c.presenceService.GetPresence(ctx.Request.Context(), targetID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, presence)
}
