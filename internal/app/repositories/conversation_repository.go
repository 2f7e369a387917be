package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/db"
	"github.com/cankurt/chatcore/internal/pkg/helpers"
)

// ConversationRepository handles database operations for conversations
type ConversationRepository struct {
	db *db.PostgresDB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(database *db.PostgresDB) *ConversationRepository {
	return &ConversationRepository{db: database}
}

// Create inserts a conversation together with its participant rows in a
// single transaction: the conversation row (participant_count already set to
// len(participantIDs)+1), the creator as owner, and the remaining users as
// members. Any failure rolls the whole thing back, conversation row included.
func (r *ConversationRepository) Create(ctx context.Context, conversation *models.Conversation, participantIDs []int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		insertSQL := `
			INSERT INTO conversations (name, description, type, created_by, participant_count)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, is_active, message_count, created_at, updated_at
		`

		conversation.ParticipantCount = len(participantIDs) + 1
		err := tx.QueryRow(ctx, insertSQL,
			conversation.Name,
			conversation.Description,
			conversation.Type,
			conversation.CreatedBy,
			conversation.ParticipantCount,
		).Scan(
			&conversation.ID,
			&conversation.IsActive,
			&conversation.MessageCount,
			&conversation.CreatedAt,
			&conversation.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("error creating conversation: %w", err)
		}

		participantInsert := squirrel.Insert("participants").
			Columns("conversation_id", "user_id", "role").
			Values(conversation.ID, conversation.CreatedBy, models.RoleOwner).
			PlaceholderFormat(squirrel.Dollar)

		for _, userID := range participantIDs {
			participantInsert = participantInsert.Values(conversation.ID, userID, models.RoleMember)
		}

		sql, args, err := participantInsert.ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error creating participants: %w", err)
		}

		return nil
	})
}

// GetUserConversations retrieves one page of the active conversations a user
// participates in, newest activity first (conversations that never saw a
// message sort last). Fetches limit+1 rows; the extra row only signals that
// another page exists and is trimmed before returning.
func (r *ConversationRepository) GetUserConversations(ctx context.Context, userID int64, page, limit int) ([]*models.Conversation, bool, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, limit)

	query := squirrel.Select(
		"c.id", "c.name", "c.description", "c.type", "c.is_active", "c.created_by",
		"c.last_message_at", "c.participant_count", "c.message_count", "c.created_at", "c.updated_at",
	).
		From("participants p").
		Join("conversations c ON p.conversation_id = c.id").
		Where("p.user_id = ?", userID).
		Where("p.is_active = TRUE").
		Where("c.is_active = TRUE").
		OrderBy("c.last_message_at DESC NULLS LAST", "c.id DESC").
		Limit(uint64(limit + 1)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, false, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var conversations []*models.Conversation
	for rows.Next() {
		var c models.Conversation
		err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.Type, &c.IsActive, &c.CreatedBy,
			&c.LastMessageAt, &c.ParticipantCount, &c.MessageCount, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, false, fmt.Errorf("error scanning conversation row: %w", err)
		}
		conversations = append(conversations, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("error iterating rows: %w", err)
	}

	conversations, hasMore := trimPage(conversations, limit)

	return conversations, hasMore, nil
}
