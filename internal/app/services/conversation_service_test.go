package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
	"github.com/cankurt/chatcore/internal/pkg/helpers"
)

func newConversationService(conv *fakeConversationStore, part *fakeParticipantStore, msg *fakeMessageStore) ConversationService {
	return NewConversationService(conv, part, msg, zerolog.Nop())
}

func TestCreateConversationDirectRequiresOnePeer(t *testing.T) {
	svc := newConversationService(&fakeConversationStore{}, newFakeParticipantStore(), &fakeMessageStore{})

	cases := []struct {
		name string
		ids  []int64
	}{
		{"no participants", nil},
		{"too many participants", []int64{2, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateConversation(context.Background(), 1, &dto.CreateConversationRequest{
				Type:           models.ConversationTypeDirect,
				ParticipantIDs: tc.ids,
			})
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateConversationRejectsCreatorInList(t *testing.T) {
	svc := newConversationService(&fakeConversationStore{}, newFakeParticipantStore(), &fakeMessageStore{})

	_, err := svc.CreateConversation(context.Background(), 1, &dto.CreateConversationRequest{
		Type:           models.ConversationTypeGroup,
		ParticipantIDs: []int64{2, 1, 3},
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateConversationDeduplicatesParticipants(t *testing.T) {
	conv := &fakeConversationStore{}
	svc := newConversationService(conv, newFakeParticipantStore(), &fakeMessageStore{})

	_, err := svc.CreateConversation(context.Background(), 1, &dto.CreateConversationRequest{
		Type:           models.ConversationTypeGroup,
		ParticipantIDs: []int64{2, 3, 2, 3},
	})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if !reflect.DeepEqual(conv.createdParticipants, []int64{2, 3}) {
		t.Errorf("participants = %v, want [2 3]", conv.createdParticipants)
	}
}

func TestCreateConversationEnforcesGroupLimit(t *testing.T) {
	svc := newConversationService(&fakeConversationStore{}, newFakeParticipantStore(), &fakeMessageStore{})

	ids := make([]int64, MaxGroupParticipants)
	for i := range ids {
		ids[i] = int64(i + 2)
	}
	_, err := svc.CreateConversation(context.Background(), 1, &dto.CreateConversationRequest{
		Type:           models.ConversationTypeGroup,
		ParticipantIDs: ids,
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected validation error for %d members, got %v", len(ids)+1, err)
	}

	// One fewer fits exactly at the limit
	_, err = svc.CreateConversation(context.Background(), 1, &dto.CreateConversationRequest{
		Type:           models.ConversationTypeGroup,
		ParticipantIDs: ids[:MaxGroupParticipants-1],
	})
	if err != nil {
		t.Errorf("expected conversation at the participant limit to succeed, got %v", err)
	}
}

func TestCreateConversationTrimsName(t *testing.T) {
	conv := &fakeConversationStore{}
	svc := newConversationService(conv, newFakeParticipantStore(), &fakeMessageStore{})

	name := "  team chat  "
	_, err := svc.CreateConversation(context.Background(), 1, &dto.CreateConversationRequest{
		Name:           &name,
		Type:           models.ConversationTypeGroup,
		ParticipantIDs: []int64{2},
	})
	if err != nil {
		t.Fatalf("CreateConversation: %v", err)
	}
	if conv.createdConversation.Name == nil || *conv.createdConversation.Name != "team chat" {
		t.Errorf("name = %v, want trimmed", conv.createdConversation.Name)
	}
	if conv.createdConversation.CreatedBy != 1 {
		t.Errorf("createdBy = %d, want 1", conv.createdConversation.CreatedBy)
	}
}

func TestListConversationsEnrichesAndPaginates(t *testing.T) {
	conv := &fakeConversationStore{
		listResult: []*models.Conversation{
			{ID: 10},
			{ID: 11},
		},
		listHasMore: true,
	}
	part := newFakeParticipantStore()
	part.participantsByConversation = map[int64][]*models.Participant{
		10: {{ConversationID: 10, UserID: 1}},
	}
	msg := &fakeMessageStore{
		lastMessages: map[int64]*models.Message{
			11: {ID: 99, ConversationID: 11},
		},
	}
	svc := newConversationService(conv, part, msg)

	response, err := svc.ListConversations(context.Background(), 1, 2, 20)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}

	if len(response.Conversations) != 2 {
		t.Fatalf("got %d conversations", len(response.Conversations))
	}
	if len(response.Conversations[0].Participants) != 1 {
		t.Error("conversation 10 should carry its participant")
	}
	if response.Conversations[1].LastMessage == nil || response.Conversations[1].LastMessage.ID != 99 {
		t.Error("conversation 11 should carry its last message")
	}
	if !response.HasMore {
		t.Error("HasMore should be true")
	}
	if response.NextCursor == nil || *response.NextCursor != 3 {
		t.Errorf("NextCursor = %v, want 3", response.NextCursor)
	}
}

func TestListConversationsLastPage(t *testing.T) {
	conv := &fakeConversationStore{listResult: []*models.Conversation{{ID: 10}}}
	svc := newConversationService(conv, newFakeParticipantStore(), &fakeMessageStore{})

	response, err := svc.ListConversations(context.Background(), 1, 1, 20)
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if response.HasMore || response.NextCursor != nil {
		t.Errorf("last page should have no next cursor, got hasMore=%v cursor=%v", response.HasMore, response.NextCursor)
	}
}

func TestListConversationsNormalizesPaging(t *testing.T) {
	conv := &fakeConversationStore{}
	svc := newConversationService(conv, newFakeParticipantStore(), &fakeMessageStore{})

	if _, err := svc.ListConversations(context.Background(), 1, 0, -7); err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if conv.lastPage != 1 {
		t.Errorf("page = %d, want 1", conv.lastPage)
	}
	if conv.lastLimit != helpers.DefaultConversationPageSize {
		t.Errorf("limit = %d, want %d", conv.lastLimit, helpers.DefaultConversationPageSize)
	}
}

func TestMarkMessagesAsReadValidatesCursor(t *testing.T) {
	part := newFakeParticipantStore()
	svc := newConversationService(&fakeConversationStore{}, part, &fakeMessageStore{})

	if err := svc.MarkMessagesAsRead(context.Background(), 1, 10, 0); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := svc.MarkMessagesAsRead(context.Background(), 1, 10, -3); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestMarkMessagesAsReadWritesCursorVerbatim(t *testing.T) {
	part := newFakeParticipantStore()
	svc := newConversationService(&fakeConversationStore{}, part, &fakeMessageStore{})

	if err := svc.MarkMessagesAsRead(context.Background(), 1, 10, 50); err != nil {
		t.Fatal(err)
	}
	// A smaller cursor is also accepted: the most recent write wins
	if err := svc.MarkMessagesAsRead(context.Background(), 1, 10, 7); err != nil {
		t.Fatal(err)
	}
	if part.readCursors[10] != 7 {
		t.Errorf("cursor = %d, want 7", part.readCursors[10])
	}
}

func TestGetUnreadCountsPassesFilter(t *testing.T) {
	part := newFakeParticipantStore()
	part.unreadCounts = []*models.UnreadCount{{ConversationID: 10, Count: 4}}
	svc := newConversationService(&fakeConversationStore{}, part, &fakeMessageStore{})

	conversationID := int64(10)
	counts, err := svc.GetUnreadCounts(context.Background(), 1, &conversationID)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0].Count != 4 {
		t.Errorf("counts = %v", counts)
	}
	if part.lastConversationID == nil || *part.lastConversationID != 10 {
		t.Error("conversation filter should be passed through")
	}
}
