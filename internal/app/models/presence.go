package models

import "time"

// UserPresence represents a user's presence row. One row per user, upserted.
type UserPresence struct {
	UserID       int64          `json:"userId" db:"user_id"`
	Status       PresenceStatus `json:"status" db:"status"`
	CustomStatus *string        `json:"customStatus,omitempty" db:"custom_status"`
	IsVisible    bool           `json:"isVisible" db:"is_visible"`
	LastSeenAt   time.Time      `json:"lastSeenAt" db:"last_seen_at"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at"`
}
