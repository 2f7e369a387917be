package services

import (
	"context"
	"time"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

// In-memory fakes for the store interfaces. Each fake records the arguments
// of its last call so tests can assert on what the service passed down.

type fakeUserStore struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	if _, exists := f.users[user.Email]; exists {
		return 0, apperrors.ErrEmailAlreadyExists
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.Email] = user
	return user.ID, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenStore) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokenStore) GetByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return stored, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, token string) error {
	stored, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.Revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(ctx context.Context, userID int64) error {
	for _, stored := range f.tokens {
		if stored.UserID == userID {
			stored.Revoked = true
		}
	}
	return nil
}

func (f *fakeTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	var deleted int64
	for token, stored := range f.tokens {
		if time.Now().After(stored.ExpiresAt) {
			delete(f.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}

type fakeConversationStore struct {
	createdConversation *models.Conversation
	createdParticipants []int64
	createErr           error

	listResult  []*models.Conversation
	listHasMore bool
	listErr     error
	lastPage    int
	lastLimit   int
}

func (f *fakeConversationStore) Create(ctx context.Context, conversation *models.Conversation, participantIDs []int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	conversation.ID = 1
	conversation.ParticipantCount = len(participantIDs) + 1
	f.createdConversation = conversation
	f.createdParticipants = participantIDs
	return nil
}

func (f *fakeConversationStore) GetUserConversations(ctx context.Context, userID int64, page, limit int) ([]*models.Conversation, bool, error) {
	f.lastPage = page
	f.lastLimit = limit
	return f.listResult, f.listHasMore, f.listErr
}

type fakeParticipantStore struct {
	participantsByConversation map[int64][]*models.Participant
	members                    []*models.Participant
	membersErr                 error

	readCursors map[int64]int64
	markReadErr error

	unreadCounts       []*models.UnreadCount
	lastConversationID *int64
}

func newFakeParticipantStore() *fakeParticipantStore {
	return &fakeParticipantStore{
		participantsByConversation: make(map[int64][]*models.Participant),
		readCursors:                make(map[int64]int64),
	}
}

func (f *fakeParticipantStore) GetConversationMembers(ctx context.Context, conversationID, requesterID int64) ([]*models.Participant, error) {
	if f.membersErr != nil {
		return nil, f.membersErr
	}
	return f.members, nil
}

func (f *fakeParticipantStore) GetActiveParticipantsByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64][]*models.Participant, error) {
	return f.participantsByConversation, nil
}

func (f *fakeParticipantStore) MarkMessagesAsRead(ctx context.Context, userID, conversationID, lastReadMessageID int64) error {
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.readCursors[conversationID] = lastReadMessageID
	return nil
}

func (f *fakeParticipantStore) GetUnreadCounts(ctx context.Context, userID int64, conversationID *int64) ([]*models.UnreadCount, error) {
	f.lastConversationID = conversationID
	return f.unreadCounts, nil
}

type fakeMessageStore struct {
	pageResult  []*models.Message
	pageHasMore bool
	pageErr     error
	lastCursor  int64
	lastLimit   int

	lastMessages map[int64]*models.Message

	sentMessage *models.Message
	sendErr     error

	updatedContent  *string
	updatedMetadata map[string]interface{}
	updateErr       error

	deletedMessageID int64
	deleteErr        error

	searchErr    error
	searchResult []*models.Message
	lastQuery    string
	lastOffset   int
	searchLimit  int
}

func (f *fakeMessageStore) GetConversationMessages(ctx context.Context, conversationID, userID, cursor int64, limit int) ([]*models.Message, bool, error) {
	f.lastCursor = cursor
	f.lastLimit = limit
	return f.pageResult, f.pageHasMore, f.pageErr
}

func (f *fakeMessageStore) GetLastMessagesByConversationIDs(ctx context.Context, conversationIDs []int64) (map[int64]*models.Message, error) {
	if f.lastMessages == nil {
		return map[int64]*models.Message{}, nil
	}
	return f.lastMessages, nil
}

func (f *fakeMessageStore) Send(ctx context.Context, message *models.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	message.ID = 100
	f.sentMessage = message
	return nil
}

func (f *fakeMessageStore) Update(ctx context.Context, userID, messageID int64, content *string, metadata map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedContent = content
	f.updatedMetadata = metadata
	return nil
}

func (f *fakeMessageStore) SoftDelete(ctx context.Context, userID, messageID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedMessageID = messageID
	return nil
}

func (f *fakeMessageStore) Search(ctx context.Context, userID int64, search string, conversationIDs []int64, limit, offset int) ([]*models.Message, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	f.lastQuery = search
	f.searchLimit = limit
	f.lastOffset = offset
	return f.searchResult, nil
}

type fakeReactionStore struct {
	addedEmoji   string
	removedEmoji string
	addErr       error
}

func (f *fakeReactionStore) Add(ctx context.Context, userID, messageID int64, emoji string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.addedEmoji = emoji
	return nil
}

func (f *fakeReactionStore) Remove(ctx context.Context, userID, messageID int64, emoji string) error {
	f.removedEmoji = emoji
	return nil
}

type fakePresenceStore struct {
	stored           *models.UserPresence
	lastStatus       *models.PresenceStatus
	lastCustomStatus *string
	lastIsVisible    *bool
}

func (f *fakePresenceStore) Upsert(ctx context.Context, userID int64, status *models.PresenceStatus, customStatus *string, isVisible *bool) (*models.UserPresence, error) {
	f.lastStatus = status
	f.lastCustomStatus = customStatus
	f.lastIsVisible = isVisible
	return &models.UserPresence{UserID: userID}, nil
}

func (f *fakePresenceStore) GetByUserID(ctx context.Context, userID int64) (*models.UserPresence, error) {
	return f.stored, nil
}
