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

// MaxGroupParticipants bounds the member count of group and channel
// conversations, creator included.
const MaxGroupParticipants = 100

// ConversationService defines the interface for conversation operations
type ConversationService interface {
	CreateConversation(ctx context.Context, userID int64, req *dto.CreateConversationRequest) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID int64, page, limit int) (*dto.ConversationsResponse, error)
	GetMembers(ctx context.Context, conversationID, userID int64) ([]*models.Participant, error)
	MarkMessagesAsRead(ctx context.Context, userID, conversationID, lastReadMessageID int64) error
	GetUnreadCounts(ctx context.Context, userID int64, conversationID *int64) ([]*models.UnreadCount, error)
}

// conversationServiceImpl implements ConversationService
type conversationServiceImpl struct {
	conversationRepo conversationStore
	participantRepo  participantStore
	messageRepo      messageStore
	logger           zerolog.Logger
}

// NewConversationService creates a new ConversationService
func NewConversationService(conversationRepo conversationStore, participantRepo participantStore, messageRepo messageStore, logger zerolog.Logger) ConversationService {
	return &conversationServiceImpl{
		conversationRepo: conversationRepo,
		participantRepo:  participantRepo,
		messageRepo:      messageRepo,
		logger:           logger,
	}
}

// CreateConversation validates and creates a conversation. The participant
// list excludes the creator, who always joins as owner: a direct
// conversation takes exactly one other participant, groups and channels up
// to MaxGroupParticipants members in total.
func (s *conversationServiceImpl) CreateConversation(ctx context.Context, userID int64, req *dto.CreateConversationRequest) (*models.Conversation, error) {
	participantIDs, err := normalizeParticipantIDs(userID, req.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case models.ConversationTypeDirect:
		if len(participantIDs) != 1 {
			return nil, apperrors.NewValidationError("A direct conversation requires exactly one other participant")
		}
	case models.ConversationTypeGroup, models.ConversationTypeChannel:
		if len(participantIDs)+1 > MaxGroupParticipants {
			return nil, apperrors.NewValidationError("Conversation exceeds the participant limit")
		}
	default:
		return nil, apperrors.NewValidationError("Unknown conversation type")
	}

	conversation := &models.Conversation{
		Name:        trimOptional(req.Name),
		Description: trimOptional(req.Description),
		Type:        req.Type,
		CreatedBy:   userID,
	}

	if err := s.conversationRepo.Create(ctx, conversation, participantIDs); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.NewResourceNotFoundError("One or more participants do not exist")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("conversationID", conversation.ID).
		Int64("createdBy", userID).
		Str("type", string(conversation.Type)).
		Msg("Conversation created")

	return conversation, nil
}

// ListConversations retrieves one page of the user's conversations, enriched
// with their active participants and newest message. Pages use a simple
// page-number cursor: nextCursor is the following page when more exist.
func (s *conversationServiceImpl) ListConversations(ctx context.Context, userID int64, page, limit int) (*dto.ConversationsResponse, error) {
	if page < helpers.DefaultPage {
		page = helpers.DefaultPage
	}
	limit = helpers.ClampLimit(limit, helpers.DefaultConversationPageSize)

	conversations, hasMore, err := s.conversationRepo.GetUserConversations(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	if err := s.enrichConversations(ctx, conversations); err != nil {
		return nil, err
	}

	response := &dto.ConversationsResponse{
		Conversations: conversations,
		HasMore:       hasMore,
	}
	if hasMore {
		next := page + 1
		response.NextCursor = &next
	}

	return response, nil
}

// enrichConversations attaches participants and last messages to a listing
// page with two batched queries.
func (s *conversationServiceImpl) enrichConversations(ctx context.Context, conversations []*models.Conversation) error {
	if len(conversations) == 0 {
		return nil
	}

	conversationIDs := make([]int64, 0, len(conversations))
	for _, c := range conversations {
		conversationIDs = append(conversationIDs, c.ID)
	}

	participants, err := s.participantRepo.GetActiveParticipantsByConversationIDs(ctx, conversationIDs)
	if err != nil {
		return err
	}

	lastMessages, err := s.messageRepo.GetLastMessagesByConversationIDs(ctx, conversationIDs)
	if err != nil {
		return err
	}

	for _, c := range conversations {
		c.Participants = participants[c.ID]
		c.LastMessage = lastMessages[c.ID]
	}

	return nil
}

// GetMembers retrieves a conversation's member list for an active participant
func (s *conversationServiceImpl) GetMembers(ctx context.Context, conversationID, userID int64) ([]*models.Participant, error) {
	return s.participantRepo.GetConversationMembers(ctx, conversationID, userID)
}

// MarkMessagesAsRead stores the given message id as the user's read cursor
// in the conversation. The cursor is written as supplied; callers racing
// each other resolve by last write.
func (s *conversationServiceImpl) MarkMessagesAsRead(ctx context.Context, userID, conversationID, lastReadMessageID int64) error {
	if lastReadMessageID <= 0 {
		return apperrors.NewValidationError("lastReadMessageId must be positive")
	}
	return s.participantRepo.MarkMessagesAsRead(ctx, userID, conversationID, lastReadMessageID)
}

// GetUnreadCounts retrieves unread message totals for the user's active
// conversations, optionally restricted to one conversation.
func (s *conversationServiceImpl) GetUnreadCounts(ctx context.Context, userID int64, conversationID *int64) ([]*models.UnreadCount, error) {
	return s.participantRepo.GetUnreadCounts(ctx, userID, conversationID)
}

// normalizeParticipantIDs deduplicates the requested participant list and
// rejects a creator mentioning themselves.
func normalizeParticipantIDs(creatorID int64, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, apperrors.NewValidationError("At least one participant is required")
	}

	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == creatorID {
			return nil, apperrors.NewValidationError("The creator is already a participant")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
