package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cankurt/chatcore/internal/db"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

// ReactionRepository handles database operations for message reactions.
type ReactionRepository struct {
	db *db.PostgresDB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(database *db.PostgresDB) *ReactionRepository {
	return &ReactionRepository{db: database}
}

// Add records a reaction after verifying the reacting user can see the
// message through an active participant row. Repeating the same
// (message, user, emoji) triple refreshes the timestamp instead of failing.
func (r *ReactionRepository) Add(ctx context.Context, userID, messageID int64, emoji string) error {
	// Access is checked through the message's own conversation, not a
	// caller-supplied conversation id.
	accessSQL := `
		SELECT m.conversation_id
		FROM messages m
		JOIN participants p ON m.conversation_id = p.conversation_id
		WHERE m.id = $1 AND p.user_id = $2 AND p.is_active = TRUE
	`

	var conversationID int64
	err := r.db.Pool.QueryRow(ctx, accessSQL, messageID, userID).Scan(&conversationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.classifyAccessFailure(ctx, messageID)
		}
		return fmt.Errorf("error verifying message access: %w", err)
	}

	upsertSQL := `
		INSERT INTO message_reactions (message_id, user_id, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT (message_id, user_id, emoji) DO UPDATE SET created_at = NOW()
	`
	if _, err := r.db.Pool.Exec(ctx, upsertSQL, messageID, userID, emoji); err != nil {
		return fmt.Errorf("error adding reaction: %w", err)
	}

	return nil
}

// Remove deletes a reaction by its composite key. Removing a reaction that
// does not exist is a no-op.
func (r *ReactionRepository) Remove(ctx context.Context, userID, messageID int64, emoji string) error {
	deleteSQL := `
		DELETE FROM message_reactions
		WHERE message_id = $1 AND user_id = $2 AND emoji = $3
	`
	if _, err := r.db.Pool.Exec(ctx, deleteSQL, messageID, userID, emoji); err != nil {
		return fmt.Errorf("error removing reaction: %w", err)
	}

	return nil
}

// classifyAccessFailure distinguishes a missing message from a message the
// user simply cannot see.
func (r *ReactionRepository) classifyAccessFailure(ctx context.Context, messageID int64) error {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)`, messageID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking message existence: %w", err)
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("Message not found")
	}
	return apperrors.NewUnauthorizedError("User is not a participant in this conversation")
}
