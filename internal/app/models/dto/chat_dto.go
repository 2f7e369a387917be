package dto

import "github.com/cankurt/chatcore/internal/app/models"

// CreateConversationRequest represents a new conversation. ParticipantIDs
// lists the other members; the creator is added implicitly as owner.
type CreateConversationRequest struct {
	Name           *string                 `json:"name" binding:"omitempty,max=255"`
	Description    *string                 `json:"description" binding:"omitempty,max=1000"`
	Type           models.ConversationType `json:"type" binding:"required,oneof=direct group channel"`
	ParticipantIDs []int64                 `json:"participantIds" binding:"required,min=1,dive,min=1"`
}

// SendMessageRequest represents a new message in a conversation
type SendMessageRequest struct {
	Content     *string                `json:"content" binding:"omitempty,max=4000"`
	Type        models.MessageType     `json:"type" binding:"omitempty,oneof=text image file audio video system"`
	ReplyToID   *int64                 `json:"replyToId" binding:"omitempty,min=1"`
	Attachments []models.Attachment    `json:"attachments" binding:"omitempty,dive"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// UpdateMessageRequest represents a message edit
type UpdateMessageRequest struct {
	Content  *string                `json:"content" binding:"omitempty,max=4000"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ReactionRequest represents adding or removing a reaction
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=10"`
}

// MarkReadRequest represents advancing a participant's read cursor
type MarkReadRequest struct {
	LastReadMessageID int64 `json:"lastReadMessageId" binding:"required,min=1"`
}

// PresenceRequest represents a presence update; omitted fields keep their
// stored values
type PresenceRequest struct {
	Status       *models.PresenceStatus `json:"status" binding:"omitempty,oneof=online away busy offline"`
	CustomStatus *string                `json:"customStatus" binding:"omitempty,max=255"`
	IsVisible    *bool                  `json:"isVisible"`
}

// SearchMessagesRequest represents a message search across the user's
// conversations
type SearchMessagesRequest struct {
	Query           string  `form:"q" binding:"required,min=2"`
	ConversationIDs []int64 `form:"conversationIds"`
	Limit           int     `form:"limit"`
	Offset          int     `form:"offset"`
}

// ConversationsResponse represents one page of the conversation listing
type ConversationsResponse struct {
	Conversations []*models.Conversation `json:"conversations"`
	HasMore       bool                   `json:"hasMore"`
	NextCursor    *int                   `json:"nextCursor"`
}

// MessagesResponse represents one page of a conversation's messages in
// chronological order
type MessagesResponse struct {
	Messages   []*models.Message `json:"messages"`
	HasMore    bool              `json:"hasMore"`
	NextCursor *int64            `json:"nextCursor"`
}

// MembersResponse represents a conversation's member list
type MembersResponse struct {
	Members []*models.Participant `json:"members"`
}

// UnreadCountsResponse represents per-conversation unread totals
type UnreadCountsResponse struct {
	Counts []*models.UnreadCount `json:"counts"`
}

// SearchMessagesResponse represents search results, newest first
type SearchMessagesResponse struct {
	Messages []*models.Message `json:"messages"`
}
