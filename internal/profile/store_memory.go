package profile

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"amlgate/internal/domain"
)

// InMemoryStore keeps profiles in a map for tests and local runs.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*domain.Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[uuid.UUID]*domain.Profile)}
}

func (s *InMemoryStore) Create(_ context.Context, profile *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *profile
	s.profiles[profile.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok || profile.IsDeleted {
		return nil, ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *InMemoryStore) List(_ context.Context, userID uuid.UUID, kind domain.ProfileKind) ([]*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*domain.Profile
	for _, profile := range s.profiles {
		if profile.IsDeleted || profile.UserID != userID {
			continue
		}
		if kind != "" && profile.Kind != kind {
			continue
		}
		copied := *profile
		result = append(result, &copied)
	}
	return result, nil
}

func (s *InMemoryStore) SearchByName(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind, name string) ([]*domain.Profile, error) {
	all, err := s.List(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return all, nil
	}
	var result []*domain.Profile
	for _, profile := range all {
		if strings.Contains(strings.ToLower(profile.CustomerName), strings.ToLower(name)) {
			result = append(result, profile)
		}
	}
	return result, nil
}

func (s *InMemoryStore) ApplyScreeningResult(_ context.Context, id uuid.UUID, update ScreeningUpdate) (*domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok || profile.IsDeleted {
		return nil, ErrNotFound
	}
	profile.Status = update.Status
	profile.ApiStatus = update.ApiStatus
	profile.ApiError = update.ApiError
	profile.ApiResult = update.ApiResult
	profile.UpdatedAt = time.Now().UTC()
	copied := *profile
	return &copied, nil
}

func (s *InMemoryStore) SoftDelete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[id]
	if !ok || profile.IsDeleted {
		return ErrNotFound
	}
	now := time.Now().UTC()
	profile.IsDeleted = true
	profile.DeletedAt = &now
	return nil
}

func (s *InMemoryStore) CountByStatus(_ context.Context, rawStatus string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, profile := range s.profiles {
		if !profile.IsDeleted && profile.Status == rawStatus {
			count++
		}
	}
	return count, nil
}
