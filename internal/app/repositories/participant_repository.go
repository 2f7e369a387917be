package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/db"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

// ParticipantRepository handles database operations for conversation participants
type ParticipantRepository struct {
	db *db.PostgresDB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(database *db.PostgresDB) *ParticipantRepository {
	return &ParticipantRepository{db: database}
}

// IsActiveParticipant checks if a user is an active participant of a conversation.
// This is the authorization primitive every conversation-scoped operation uses.
func (r *ParticipantRepository) IsActiveParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	return isActiveParticipant(ctx, r.db.Pool, conversationID, userID)
}

// GetConversationMembers retrieves all active participants of a conversation,
// joined with user profile and presence. The requester must be an active
// participant. Ordering is by role (enum order: owner, admin, moderator,
// member) and then by user name.
func (r *ParticipantRepository) GetConversationMembers(ctx context.Context, conversationID, requesterID int64) ([]*models.Participant, error) {
	if err := requireActiveParticipant(ctx, r.db.Pool, conversationID, requesterID); err != nil {
		return nil, err
	}

	query := `
		SELECT
			p.conversation_id, p.user_id, p.role, p.is_active, p.is_muted, p.muted_until,
			p.joined_at, p.left_at, p.last_seen_at, p.last_read_message_id, p.notifications_enabled,
			u.id, u.name, u.email, u.created_at, u.updated_at,
			pr.user_id, pr.status, pr.custom_status, pr.is_visible, pr.last_seen_at, pr.updated_at
		FROM participants p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN user_presence pr ON pr.user_id = u.id
		WHERE p.conversation_id = $1 AND p.is_active = TRUE
		ORDER BY p.role, u.name
	`

	rows, err := r.db.Pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var members []*models.Participant
	for rows.Next() {
		participant, err := scanParticipantWithRelations(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return members, nil
}

// GetActiveParticipantsByConversationIDs retrieves active participants with
// their users for a set of conversations in one batched query, keyed by
// conversation id. Used to enrich conversation listings without N+1 queries.
func (r *ParticipantRepository) GetActiveParticipantsByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64][]*models.Participant, error) {
	result := make(map[int64][]*models.Participant)
	if len(conversationIDs) == 0 {
		return result, nil
	}

	query := squirrel.Select(
		"p.conversation_id", "p.user_id", "p.role", "p.is_active", "p.is_muted", "p.muted_until",
		"p.joined_at", "p.left_at", "p.last_seen_at", "p.last_read_message_id", "p.notifications_enabled",
		"u.id", "u.name", "u.email", "u.created_at", "u.updated_at",
	).
		From("participants p").
		Join("users u ON p.user_id = u.id").
		Where(squirrel.Eq{"p.conversation_id": conversationIDs}).
		Where("p.is_active = TRUE").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		var u models.User
		err := rows.Scan(
			&p.ConversationID, &p.UserID, &p.Role, &p.IsActive, &p.IsMuted, &p.MutedUntil,
			&p.JoinedAt, &p.LeftAt, &p.LastSeenAt, &p.LastReadMessageID, &p.NotificationsEnabled,
			&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		p.User = &u
		result[p.ConversationID] = append(result[p.ConversationID], &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// getParticipantRole returns a user's role in a conversation, restricted to
// active rows. Shared with the message delete path, which checks moderation
// rights.
func getParticipantRole(ctx context.Context, q Querier, conversationID, userID int64) (models.ParticipantRole, error) {
	query := `
		SELECT role
		FROM participants
		WHERE conversation_id = $1 AND user_id = $2 AND is_active = TRUE
	`

	var role models.ParticipantRole
	err := q.QueryRow(ctx, query, conversationID, userID).Scan(&role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewUnauthorizedError("User is not a participant in this conversation")
		}
		return "", fmt.Errorf("error retrieving participant role: %w", err)
	}

	return role, nil
}

// MarkMessagesAsRead advances the participant's read cursor and refreshes
// last_seen_at. The cursor is written as given: callers are expected to pass
// non-decreasing ids, and a smaller id simply wins (last write wins).
func (r *ParticipantRepository) MarkMessagesAsRead(ctx context.Context, userID, conversationID, lastReadMessageID int64) error {
	query := `
		UPDATE participants
		SET last_read_message_id = $3, last_seen_at = NOW()
		WHERE user_id = $1 AND conversation_id = $2
	`

	result, err := r.db.Pool.Exec(ctx, query, userID, conversationID, lastReadMessageID)
	if err != nil {
		return fmt.Errorf("error updating read cursor: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("Participant not found in conversation")
	}

	return nil
}

// GetUnreadCounts counts unread messages per conversation for a user: messages
// with an id above the participant's read cursor (or all of them when the
// cursor was never set), restricted to the user's active conversations.
// conversationID narrows the count to a single conversation when non-nil.
func (r *ParticipantRepository) GetUnreadCounts(ctx context.Context, userID int64, conversationID *int64) ([]*models.UnreadCount, error) {
	query := squirrel.Select("m.conversation_id", "COUNT(*)").
		From("messages m").
		Join("participants p ON m.conversation_id = p.conversation_id").
		Where("p.user_id = ?", userID).
		Where("p.is_active = TRUE").
		Where("m.id > COALESCE(p.last_read_message_id, 0)").
		GroupBy("m.conversation_id").
		PlaceholderFormat(squirrel.Dollar)

	if conversationID != nil {
		query = query.Where("m.conversation_id = ?", *conversationID)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var counts []*models.UnreadCount
	for rows.Next() {
		var c models.UnreadCount
		if err := rows.Scan(&c.ConversationID, &c.Count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts = append(counts, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// scanParticipantWithRelations scans a participant row joined with its user
// and an optional presence row.
func scanParticipantWithRelations(rows pgx.Rows) (*models.Participant, error) {
	var p models.Participant
	var u models.User
	var presenceUserID *int64
	var status *models.PresenceStatus
	var customStatus *string
	var isVisible *bool
	var presenceLastSeenAt, presenceUpdatedAt *time.Time

	err := rows.Scan(
		&p.ConversationID, &p.UserID, &p.Role, &p.IsActive, &p.IsMuted, &p.MutedUntil,
		&p.JoinedAt, &p.LeftAt, &p.LastSeenAt, &p.LastReadMessageID, &p.NotificationsEnabled,
		&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt,
		&presenceUserID, &status, &customStatus, &isVisible, &presenceLastSeenAt, &presenceUpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning participant row: %w", err)
	}

	p.User = &u
	if presenceUserID != nil {
		presence := &models.UserPresence{
			UserID:       *presenceUserID,
			Status:       *status,
			CustomStatus: customStatus,
		}
		if isVisible != nil {
			presence.IsVisible = *isVisible
		}
		if presenceLastSeenAt != nil {
			presence.LastSeenAt = *presenceLastSeenAt
		}
		if presenceUpdatedAt != nil {
			presence.UpdatedAt = *presenceUpdatedAt
		}
		p.Presence = presence
	}

	return &p, nil
}
