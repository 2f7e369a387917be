package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

func TestUpdatePresencePartialFields(t *testing.T) {
	store := &fakePresenceStore{}
	svc := NewPresenceService(store, zerolog.Nop())

	status := models.PresenceAway
	if _, err := svc.UpdatePresence(context.Background(), 1, &dto.PresenceRequest{Status: &status}); err != nil {
		t.Fatalf("UpdatePresence: %v", err)
	}

	if store.lastStatus == nil || *store.lastStatus != models.PresenceAway {
		t.Error("status should be passed through")
	}
	// Omitted fields stay nil so the store keeps the existing values
	if store.lastCustomStatus != nil || store.lastIsVisible != nil {
		t.Error("omitted fields should be passed as nil")
	}
}

func TestUpdatePresenceTrimsCustomStatus(t *testing.T) {
	store := &fakePresenceStore{}
	svc := NewPresenceService(store, zerolog.Nop())

	customStatus := "  out for lunch  "
	if _, err := svc.UpdatePresence(context.Background(), 1, &dto.PresenceRequest{CustomStatus: &customStatus}); err != nil {
		t.Fatal(err)
	}
	if store.lastCustomStatus == nil || *store.lastCustomStatus != "out for lunch" {
		t.Errorf("customStatus = %v, want trimmed", store.lastCustomStatus)
	}
}

func TestUpdatePresenceRejectsLongCustomStatus(t *testing.T) {
	svc := NewPresenceService(&fakePresenceStore{}, zerolog.Nop())

	long := strings.Repeat("x", MaxCustomStatusLength+1)
	if _, err := svc.UpdatePresence(context.Background(), 1, &dto.PresenceRequest{CustomStatus: &long}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGetPresenceDefaultsToOffline(t *testing.T) {
	svc := NewPresenceService(&fakePresenceStore{}, zerolog.Nop())

	presence, err := svc.GetPresence(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetPresence: %v", err)
	}
	if presence.Status != models.PresenceOffline {
		t.Errorf("status = %s, want offline default", presence.Status)
	}
	if presence.UserID != 9 {
		t.Errorf("userID = %d", presence.UserID)
	}
}

func TestGetPresenceReturnsStoredRow(t *testing.T) {
	store := &fakePresenceStore{stored: &models.UserPresence{UserID: 9, Status: models.PresenceBusy}}
	svc := NewPresenceService(store, zerolog.Nop())

	presence, err := svc.GetPresence(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if presence.Status != models.PresenceBusy {
		t.Errorf("status = %s, want busy", presence.Status)
	}
}
