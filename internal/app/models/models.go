package models

// ConversationType defines the kind of conversation
type ConversationType string

const (
	ConversationTypeDirect  ConversationType = "direct"
	ConversationTypeGroup   ConversationType = "group"
	ConversationTypeChannel ConversationType = "channel"
)

// MessageType defines the payload kind of a message
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeAudio  MessageType = "audio"
	MessageTypeVideo  MessageType = "video"
	MessageTypeSystem MessageType = "system"
)

// ParticipantRole defines a participant's role within a conversation
type ParticipantRole string

const (
	RoleOwner     ParticipantRole = "owner"
	RoleAdmin     ParticipantRole = "admin"
	RoleModerator ParticipantRole = "moderator"
	RoleMember    ParticipantRole = "member"
)

// CanModerate reports whether the role may delete other members' messages.
func (r ParticipantRole) CanModerate() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// Rank returns the fixed ordering position of the role: owner first, member last.
// Matches the participant_role enum order in the database.
func (r ParticipantRole) Rank() int {
	switch r {
	case RoleOwner:
		return 0
	case RoleAdmin:
		return 1
	case RoleModerator:
		return 2
	default:
		return 3
	}
}

// PresenceStatus defines a user's presence state
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceBusy    PresenceStatus = "busy"
	PresenceOffline PresenceStatus = "offline"
)
