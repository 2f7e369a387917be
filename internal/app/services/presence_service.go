package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cankurt/chatcore/internal/app/models"
	"github.com/cankurt/chatcore/internal/app/models/dto"
	"github.com/cankurt/chatcore/internal/pkg/apperrors"
)

// MaxCustomStatusLength bounds the free-form status text
const MaxCustomStatusLength = 255

// PresenceService defines the interface for presence operations
type PresenceService interface {
	UpdatePresence(ctx context.Context, userID int64, req *dto.PresenceRequest) (*models.UserPresence, error)
	GetPresence(ctx context.Context, userID int64) (*models.UserPresence, error)
}

// presenceServiceImpl implements PresenceService
type presenceServiceImpl struct {
	presenceRepo presenceStore
	logger       zerolog.Logger
}

// NewPresenceService creates a new PresenceService
func NewPresenceService(presenceRepo presenceStore, logger zerolog.Logger) PresenceService {
	return &presenceServiceImpl{
		presenceRepo: presenceRepo,
		logger:       logger,
	}
}

// UpdatePresence upserts the user's presence row. Omitted fields keep their
// stored values.
func (s *presenceServiceImpl) UpdatePresence(ctx context.Context, userID int64, req *dto.PresenceRequest) (*models.UserPresence, error) {
	customStatus := req.CustomStatus
	if customStatus != nil {
		trimmed := strings.TrimSpace(*customStatus)
		if len(trimmed) > MaxCustomStatusLength {
			return nil, apperrors.NewValidationError("Custom status is too long")
		}
		customStatus = &trimmed
	}

	return s.presenceRepo.Upsert(ctx, userID, req.Status, customStatus, req.IsVisible)
}

// GetPresence retrieves a user's presence, defaulting to offline for users
// who have never reported any.
func (s *presenceServiceImpl) GetPresence(ctx context.Context, userID int64) (*models.UserPresence, error) {
	presence, err := s.presenceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if presence == nil {
		return &models.UserPresence{
			UserID:    userID,
			Status:    models.PresenceOffline,
			IsVisible: true,
		}, nil
	}
	return presence, nil
}
