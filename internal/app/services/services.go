package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/app/repositories"
	"github.com/cankurt/chatcore/internal/pkg/auth"
)

// The store interfaces below are what each service needs from the
// repository layer. They are satisfied by the concrete repositories and by
// in-memory fakes in tests.

type userStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type tokenStore interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type conversationStore interface {
	Create(ctx context.Context, conversation *models.Conversation, participantIDs []int64) error
	GetUserConversations(ctx context.Context, userID int64, page, limit int) ([]*models.Conversation, bool, error)
}

type participantStore interface {
	GetConversationMembers(ctx context.Context, conversationID, requesterID int64) ([]*models.Participant, error)
	GetActiveParticipantsByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64][]*models.Participant, error)
	MarkMessagesAsRead(ctx context.Context, userID, conversationID, lastReadMessageID int64) error
	GetUnreadCounts(ctx context.Context, userID int64, conversationID *int64) ([]*models.UnreadCount, error)
}

type messageStore interface {
	GetConversationMessages(ctx context.Context, conversationID, userID, cursor int64, limit int) ([]*models.Message, bool, error)
	GetLastMessagesByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error)
	Send(ctx context.Context, message *models.Message) error
	Update(ctx context.Context, userID, messageID int64, content *string, metadata map[string]interface{}) error
	SoftDelete(ctx context.Context, userID, messageID int64) error
	Search(ctx context.Context, userID int64, search string, conversationIDs []int64, limit, offset int) ([]*models.Message, error)
}

type reactionStore interface {
	Add(ctx context.Context, userID, messageID int64, emoji string) error
	Remove(ctx context.Context, userID, messageID int64, emoji string) error
}

type presenceStore interface {
	Upsert(ctx context.Context, userID int64, status *models.PresenceStatus, customStatus *string, isVisible *bool) (*models.UserPresence, error)
	GetByUserID(ctx context.Context, userID int64) (*models.UserPresence, error)
}

// Services aggregates all application services
type Services struct {
	Auth         AuthService
	Conversation ConversationService
	Message      MessageService
	Presence     PresenceService
}

// NewServices creates all services backed by the given repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, logger zerolog.Logger) *Services {
	return &Services{
		Auth:         NewAuthService(repos.UserRepository, repos.TokenRepository, jwtService, logger),
		Conversation: NewConversationService(repos.ConversationRepository, repos.ParticipantRepository, repos.MessageRepository, logger),
		Message:      NewMessageService(repos.MessageRepository, repos.ReactionRepository, logger),
		Presence:     NewPresenceService(repos.PresenceRepository, logger),
	}
}
