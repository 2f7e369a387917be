package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/app/services"
	"github.com/cankurt/chatcore/internal/middleware"
	"github.com/cankurt/chatcore/internal/pkg/helpers"
)

// ConversationController handles conversation endpoints
type ConversationController struct {
	conversationService services.ConversationService
}

// NewConversationController creates a new ConversationController
func NewConversationController(conversationService services.ConversationService) *ConversationController {
	return &ConversationController{conversationService: conversationService}
}

// CreateConversation creates a conversation with the caller as owner
func (c *ConversationController) CreateConversation(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateConversationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	conversation, err := c.conversationService.CreateConversation(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, conversation)
}

// ListConversations returns one page of the caller's conversations
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	page, limit := helpers.ParsePaginationParams(ctx)
	response, err := c.conversationService.ListConversations(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetMembers returns a conversation's member list
func (c *ConversationController) GetMembers(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	conversationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	members, err := c.conversationService.GetMembers(ctx.Request.Context(), conversationID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MembersResponse{Members: members})
}

// MarkMessagesAsRead advances the caller's read cursor in a conversation
func (c *ConversationController) MarkMessagesAsRead(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	conversationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MarkReadRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.conversationService.MarkMessagesAsRead(ctx.Request.Context(), userID, conversationID, req.LastReadMessageID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Messages marked as read"})
}

// GetUnreadCounts returns unread totals, optionally for one conversation via
// the conversationId query parameter
func (c *ConversationController) GetUnreadCounts(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var conversationID *int64
	if idStr := ctx.Query("conversationId"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid conversationId parameter")))
			return
		}
		conversationID = &id
	}

	counts, err := c.conversationService.GetUnreadCounts(ctx.Request.Context(), userID, conversationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UnreadCountsResponse{Counts: counts})
}
