package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/db"
)

// PresenceRepository handles database operations for user presence.
type PresenceRepository struct {
	db *db.PostgresDB
}

// NewPresenceRepository creates a new PresenceRepository
func NewPresenceRepository(database *db.PostgresDB) *PresenceRepository {
	return &PresenceRepository{db: database}
}

// Upsert creates or updates a user's presence row. Fields passed as nil keep
// their stored value on update; on first insert they fall back to "online"
// and visible. last_seen_at is refreshed on every call.
func (r *PresenceRepository) Upsert(ctx context.Context, userID int64, status *models.PresenceStatus, customStatus *string, isVisible *bool) (*models.UserPresence, error) {
	upsertSQL := `
		INSERT INTO user_presence (user_id, status, custom_status, is_visible, last_seen_at)
		VALUES ($1, COALESCE($2::presence_status, 'online'), $3, COALESCE($4, TRUE), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			status = COALESCE($2::presence_status, user_presence.status),
			custom_status = COALESCE($3, user_presence.custom_status),
			is_visible = COALESCE($4, user_presence.is_visible),
			last_seen_at = NOW(),
			updated_at = NOW()
		RETURNING user_id, status, custom_status, is_visible, last_seen_at, updated_at
	`

	var presence models.UserPresence
	err := r.db.Pool.QueryRow(ctx, upsertSQL, userID, status, customStatus, isVisible).Scan(
		&presence.UserID,
		&presence.Status,
		&presence.CustomStatus,
		&presence.IsVisible,
		&presence.LastSeenAt,
		&presence.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error upserting presence: %w", err)
	}

	return &presence, nil
}

// GetByUserID retrieves a user's presence row, or nil when the user has
// never reported presence.
func (r *PresenceRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserPresence, error) {
	query := `
		SELECT user_id, status, custom_status, is_visible, last_seen_at, updated_at
		FROM user_presence
		WHERE user_id = $1
	`

	var presence models.UserPresence
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&presence.UserID,
		&presence.Status,
		&presence.CustomStatus,
		&presence.IsVisible,
		&presence.LastSeenAt,
		&presence.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving presence: %w", err)
	}

	return &presence, nil
}
