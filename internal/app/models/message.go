package models

import "time"

// Attachment describes a single file attached to a message.
// Stored as part of the message row's JSONB attachments column.
type Attachment struct {
	URL       string  `json:"url"`
	FileName  string  `json:"fileName"`
	FileSize  int64   `json:"fileSize"`
	MimeType  string  `json:"mimeType"`
	Thumbnail *string `json:"thumbnail,omitempty"`
}

// Message represents a message in a conversation. Content is nil once the
// message has been soft-deleted and stays nil forever after.
type Message struct {
	ID             int64                  `json:"id" db:"id"`
	ConversationID int64                  `json:"conversationId" db:"conversation_id"`
	SenderID       int64                  `json:"senderId" db:"sender_id"`
	Content        *string                `json:"content" db:"content"`
	Type           MessageType            `json:"type" db:"type"`
	ReplyToID      *int64                 `json:"replyToId,omitempty" db:"reply_to_id"`
	Attachments    []Attachment           `json:"attachments,omitempty" db:"attachments"`
	IsEdited       bool                   `json:"isEdited" db:"is_edited"`
	IsDeleted      bool                   `json:"isDeleted" db:"is_deleted"`
	DeletedAt      *time.Time             `json:"deletedAt,omitempty" db:"deleted_at"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time              `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time              `json:"updatedAt" db:"updated_at"`

	// Related entities. ReplyTo is resolved one level deep only; the stored
	// reply_to_id is the back-reference, never an eager chain.
	Sender    *User              `json:"sender,omitempty"`
	ReplyTo   *Message           `json:"replyTo,omitempty"`
	Reactions []*MessageReaction `json:"reactions,omitempty"`
	Mentions  []*MessageMention  `json:"mentions,omitempty"`
}

// MessageReaction represents an emoji reaction on a message.
// The (message, user, emoji) triple is unique.
type MessageReaction struct {
	MessageID int64     `json:"messageId" db:"message_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Emoji     string    `json:"emoji" db:"emoji"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}

// MessageMention represents a user being @-mentioned in a message.
// Read state here is independent of the conversation read cursor.
type MessageMention struct {
	MessageID       int64      `json:"messageId" db:"message_id"`
	MentionedUserID int64      `json:"mentionedUserId" db:"mentioned_user_id"`
	IsRead          bool       `json:"isRead" db:"is_read"`
	ReadAt          *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`

	// Related entities
	MentionedUser *User `json:"mentionedUser,omitempty"`
}

// UnreadCount is the number of unread messages in one conversation.
type UnreadCount struct {
	ConversationID int64 `json:"conversationId" db:"conversation_id"`
	Count          int   `json:"unreadCount" db:"unread_count"`
}
