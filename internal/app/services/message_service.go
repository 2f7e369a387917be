package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
	"github.com/cankurt/chatcore/internal/pkg/dberrors"
	"github.com/cankurt/chatcore/internal/pkg/helpers"
)

// Message content and search bounds
const (
	MaxMessageContentLength = 4000
	MaxEmojiLength          = 10
	MinSearchQueryLength    = 2
)

// MessageService defines the interface for message operations
type MessageService interface {
	GetMessages(ctx context.Context, conversationID, userID, cursor int64, limit int) (*dto.MessagesResponse, error)
	SendMessage(ctx context.Context, userID, conversationID int64, req *dto.SendMessageRequest) (*models.Message, error)
	UpdateMessage(ctx context.Context, userID, messageID int64, req *dto.UpdateMessageRequest) error
	DeleteMessage(ctx context.Context, userID, messageID int64) error
	AddReaction(ctx context.Context, userID, messageID int64, emoji string) error
	RemoveReaction(ctx context.Context, userID, messageID int64, emoji string) error
	SearchMessages(ctx context.Context, userID int64, req *dto.SearchMessagesRequest) ([]*models.Message, error)
}

// messageServiceImpl implements MessageService
type messageServiceImpl struct {
	messageRepo  messageStore
	reactionRepo reactionStore
	logger       zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(messageRepo messageStore, reactionRepo reactionStore, logger zerolog.Logger) MessageService {
	return &messageServiceImpl{
		messageRepo:  messageRepo,
		reactionRepo: reactionRepo,
		logger:       logger,
	}
}

// GetMessages retrieves one page of a conversation's messages in
// chronological order. nextCursor is the id of the oldest returned message
// and fetches the next older page when passed back.
func (s *messageServiceImpl) GetMessages(ctx context.Context, conversationID, userID, cursor int64, limit int) (*dto.MessagesResponse, error) {
	limit = helpers.ClampLimit(limit, helpers.DefaultMessagePageSize)

	messages, hasMore, err := s.messageRepo.GetConversationMessages(ctx, conversationID, userID, cursor, limit)
	if err != nil {
		return nil, err
	}

	response := &dto.MessagesResponse{
		Messages: messages,
		HasMore:  hasMore,
	}
	if hasMore && len(messages) > 0 {
		// Messages are ascending, so the oldest of the page comes first
		oldest := messages[0].ID
		response.NextCursor = &oldest
	}

	return response, nil
}

// SendMessage validates and stores a new message. Content is required unless
// the message carries attachments.
func (s *messageServiceImpl) SendMessage(ctx context.Context, userID, conversationID int64, req *dto.SendMessageRequest) (*models.Message, error) {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}
	if content == nil && len(req.Attachments) == 0 {
		return nil, apperrors.NewValidationError("Message content cannot be empty")
	}

	messageType := req.Type
	if messageType == "" {
		messageType = models.MessageTypeText
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		Type:           messageType,
		ReplyToID:      req.ReplyToID,
		Attachments:    req.Attachments,
		Metadata:       req.Metadata,
	}

	if err := s.messageRepo.Send(ctx, message); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("Reply target does not exist")
		}
		return nil, err
	}

	s.logger.Debug().
		Int64("messageID", message.ID).
		Int64("conversationID", conversationID).
		Int64("senderID", userID).
		Msg("Message sent")

	return message, nil
}

// UpdateMessage edits a message's content or metadata
func (s *messageServiceImpl) UpdateMessage(ctx context.Context, userID, messageID int64, req *dto.UpdateMessageRequest) error {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return err
	}
	if req.Content != nil && content == nil {
		return apperrors.NewValidationError("Message content cannot be empty")
	}
	if content == nil && req.Metadata == nil {
		return apperrors.NewValidationError("Nothing to update")
	}

	return s.messageRepo.Update(ctx, userID, messageID, content, req.Metadata)
}

// DeleteMessage soft deletes a message
func (s *messageServiceImpl) DeleteMessage(ctx context.Context, userID, messageID int64) error {
	return s.messageRepo.SoftDelete(ctx, userID, messageID)
}

// AddReaction records an emoji reaction on a message
func (s *messageServiceImpl) AddReaction(ctx context.Context, userID, messageID int64, emoji string) error {
	normalized, err := normalizeEmoji(emoji)
	if err != nil {
		return err
	}
	return s.reactionRepo.Add(ctx, userID, messageID, normalized)
}

// RemoveReaction removes the caller's reaction from a message
func (s *messageServiceImpl) RemoveReaction(ctx context.Context, userID, messageID int64, emoji string) error {
	normalized, err := normalizeEmoji(emoji)
	if err != nil {
		return err
	}
	return s.reactionRepo.Remove(ctx, userID, messageID, normalized)
}

// SearchMessages retrieves non-deleted messages matching a query across the
// user's conversations, newest first.
func (s *messageServiceImpl) SearchMessages(ctx context.Context, userID int64, req *dto.SearchMessagesRequest) ([]*models.Message, error) {
	query := strings.TrimSpace(req.Query)
	if len(query) < MinSearchQueryLength {
		return nil, apperrors.NewValidationError("Search query is too short")
	}

	limit := helpers.ClampLimit(req.Limit, helpers.DefaultConversationPageSize)
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	return s.messageRepo.Search(ctx, userID, query, req.ConversationIDs, limit, offset)
}

// normalizeContent trims content and enforces the length bound. Empty or
// whitespace-only content collapses to nil.
func normalizeContent(content *string) (*string, error) {
	if content == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*content)
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > MaxMessageContentLength {
		return nil, apperrors.NewValidationError("Message content is too long")
	}
	return &trimmed, nil
}

func normalizeEmoji(emoji string) (string, error) {
	trimmed := strings.TrimSpace(emoji)
	if trimmed == "" {
		return "", apperrors.NewValidationError("Emoji cannot be empty")
	}
	if len(trimmed) > MaxEmojiLength {
		return "", apperrors.NewValidationError("Emoji is too long")
	}
	return trimmed, nil
}
