package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	appModels "github.com/cankurt/chatcore/internal/app/models"
	appRepos "github.com/cankurt/chatcore/internal/app/repositories"
	"github.com/cankurt/chatcore/internal/db"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
	"github.com/cankurt/chatcore/internal/pkg/auth"
)

// CreateDemoData creates a couple of demo users and a group conversation so
// a fresh instance has something to chat in. Existing accounts are reused.
func CreateDemoData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(database)
	conversationRepo := appRepos.NewConversationRepository(database)

	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	demoUsers := []struct {
		name  string
		email string
	}{
		{"alice", "alice@chatcore.local"},
		{"bob", "bob@chatcore.local"},
		{"carol", "carol@chatcore.local"},
	}

	userIDs := make([]int64, 0, len(demoUsers))
	for _, u := range demoUsers {
		existing, err := userRepo.GetByEmail(ctx, u.email)
		if err == nil {
			userIDs = append(userIDs, existing.ID)
			continue
		}
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			lgr.Error().Err(err).Str("email", u.email).Msg("Error looking up demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		hashed, err := auth.HashPassword("changeme123")
		if err != nil {
			return errors.Join(finalErr, err)
		}

		id, err := userRepo.Create(ctx, &appModels.User{
			Name:     u.name,
			Email:    u.email,
			Password: hashed,
		})
		if err != nil {
			lgr.Error().Err(err).Str("email", u.email).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		userIDs = append(userIDs, id)
	}

	if len(userIDs) < 2 {
		return finalErr
	}

	// One shared group conversation, owned by the first demo user. A demo
	// instance that already has conversations is left alone.
	conversations, _, err := conversationRepo.GetUserConversations(ctx, userIDs[0], 1, 1)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking existing demo conversations")
		return errors.Join(finalErr, err)
	}
	if len(conversations) > 0 {
		return finalErr
	}

	name := "general"
	conversation := &appModels.Conversation{
		Name:      &name,
		Type:      appModels.ConversationTypeGroup,
		CreatedBy: userIDs[0],
	}
	if err := conversationRepo.Create(ctx, conversation, userIDs[1:]); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo conversation")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Int64("conversationID", conversation.ID).Msg("Demo data created")
	return finalErr
}
