package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/app/services"
	"github.com/cankurt/chatcore/internal/middleware"
	"github.com/cankurt/chatcore/internal/pkg/helpers"
)

// MessageController handles message endpoints
type MessageController struct {
	messageService services.MessageService
}

// NewMessageController creates a new MessageController
func NewMessageController(messageService services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// GetMessages returns one page of a conversation's messages in chronological
// order
func (c *MessageController) GetMessages(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	conversationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	cursor, limit := helpers.ParseCursorParams(ctx)
	response, err := c.messageService.GetMessages(ctx.Request.Context(), conversationID, userID, cursor, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// SendMessage posts a message into a conversation
func (c *MessageController) SendMessage(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	conversationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	message, err := c.messageService.SendMessage(ctx.Request.Context(), userID, conversationID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, message)
}

// UpdateMessage edits a message's content or metadata
func (c *MessageController) UpdateMessage(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.messageService.UpdateMessage(ctx.Request.Context(), userID, messageID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Message updated"})
}

// DeleteMessage soft deletes a message
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.messageService.DeleteMessage(ctx.Request.Context(), userID, messageID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Message deleted"})
}

// AddReaction records an emoji reaction on a message
func (c *MessageController) AddReaction(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.messageService.AddReaction(ctx.Request.Context(), userID, messageID, req.Emoji); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Reaction added"})
}

// RemoveReaction removes the caller's reaction from a message
func (c *MessageController) RemoveReaction(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	messageID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ReactionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.messageService.RemoveReaction(ctx.Request.Context(), userID, messageID, req.Emoji); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Reaction removed"})
}

// SearchMessages searches the caller's conversations for matching messages
func (c *MessageController) SearchMessages(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.SearchMessagesRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	messages, err := c.messageService.SearchMessages(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SearchMessagesResponse{Messages: messages})
}
