package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cankurt/chatcore/internal/db"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx,
// so the same query helpers run inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isActiveParticipant is the single authorization check used by every
// conversation-scoped operation: is the user an active participant of the
// conversation. All repositories go through this (or the equivalent join);
// nothing re-implements it ad hoc.
func isActiveParticipant(ctx context.Context, q Querier, conversationID, userID int64) (bool, error) {
	query := `
		SELECT 1
		FROM participants
		WHERE conversation_id = $1 AND user_id = $2 AND is_active = TRUE
	`

	var exists int
	err := q.QueryRow(ctx, query, conversationID, userID).Scan(&exists)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error checking participant: %w", err)
	}

	return true, nil
}

// requireActiveParticipant turns a failed participant check into the
// unauthorized error every operation must surface before touching anything.
func requireActiveParticipant(ctx context.Context, q Querier, conversationID, userID int64) error {
	ok, err := isActiveParticipant(ctx, q, conversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewUnauthorizedError("User is not a participant in this conversation")
	}
	return nil
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	ConversationRepository *ConversationRepository
	ParticipantRepository  *ParticipantRepository
	MessageRepository      *MessageRepository
	ReactionRepository     *ReactionRepository
	PresenceRepository     *PresenceRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(database),
		TokenRepository:        NewTokenRepository(database),
		ConversationRepository: NewConversationRepository(database),
		ParticipantRepository:  NewParticipantRepository(database),
		MessageRepository:      NewMessageRepository(database),
		ReactionRepository:     NewReactionRepository(database),
		PresenceRepository:     NewPresenceRepository(database),
	}
}
