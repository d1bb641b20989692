package profile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"amlgate/internal/domain"
)

// ErrNotFound is returned when a profile does not exist or is soft-deleted.
var ErrNotFound = errors.New("profile not found")

// ScreeningUpdate is the one-shot write the pipeline performs after
// reconciliation: status, apiStatus, apiError and apiResult change together.
type ScreeningUpdate struct {
	Status    string
	ApiStatus string
	ApiError  *domain.ApiError
	ApiResult json.RawMessage
}

// Store persists profiles. All reads filter soft-deleted records
// transparently; the pipeline never sees a deleted profile.
type Store interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind) ([]*domain.Profile, error)
	SearchByName(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind, name string) ([]*domain.Profile, error)
	ApplyScreeningResult(ctx context.Context, id uuid.UUID, update ScreeningUpdate) (*domain.Profile, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, rawStatus string) (int, error)
}
