package models

import "time"

// Conversation represents a direct, group or channel conversation
type Conversation struct {
	ID               int64            `json:"id" db:"id"`
	Name             *string          `json:"name,omitempty" db:"name"`
	Description      *string          `json:"description,omitempty" db:"description"`
	Type             ConversationType `json:"type" db:"type"`
	IsActive         bool             `json:"isActive" db:"is_active"`
	CreatedBy        int64            `json:"createdBy" db:"created_by"`
	LastMessageAt    *time.Time       `json:"lastMessageAt,omitempty" db:"last_message_at"`
	ParticipantCount int              `json:"participantCount" db:"participant_count"`
	MessageCount     int              `json:"messageCount" db:"message_count"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`

	// Related entities
	Participants []*Participant `json:"participants,omitempty"`
	LastMessage  *Message       `json:"lastMessage,omitempty"`
}

// Participant represents a user's membership in a conversation.
// Rows are never hard-deleted; IsActive flips false on leave so that
// message history keeps its attribution.
type Participant struct {
	ConversationID       int64           `json:"conversationId" db:"conversation_id"`
	UserID               int64           `json:"userId" db:"user_id"`
	Role                 ParticipantRole `json:"role" db:"role"`
	IsActive             bool            `json:"isActive" db:"is_active"`
	IsMuted              bool            `json:"isMuted" db:"is_muted"`
	MutedUntil           *time.Time      `json:"mutedUntil,omitempty" db:"muted_until"`
	JoinedAt             time.Time       `json:"joinedAt" db:"joined_at"`
	LeftAt               *time.Time      `json:"leftAt,omitempty" db:"left_at"`
	LastSeenAt           *time.Time      `json:"lastSeenAt,omitempty" db:"last_seen_at"`
	LastReadMessageID    *int64          `json:"lastReadMessageId,omitempty" db:"last_read_message_id"`
	NotificationsEnabled bool            `json:"notificationsEnabled" db:"notifications_enabled"`

	// Related entities
	User     *User         `json:"user,omitempty"`
	Presence *UserPresence `json:"presence,omitempty"`
}
