package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"amlgate/internal/domain"
	"amlgate/internal/screening/status"
	dErrors "amlgate/pkg/domain-errors"
)

// CreationCounter records created profiles for operational visibility.
type CreationCounter interface {
	IncProfilesCreated()
}

// Service owns profile lifecycle outside the screening pipeline: creation,
// lookup, listing, unified search, soft deletion and dashboard counters.
type Service struct {
	store   Store
	cache   Cache
	logger  *slog.Logger
	metrics CreationCounter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m CreationCounter) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(cache Cache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new profile before any screening happens, so the
// customer record survives even an unreachable provider.
func (s *Service) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if strings.TrimSpace(profile.CustomerName) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "customer name is required")
	}
	if profile.Kind != domain.KindIndividual && profile.Kind != domain.KindCorporate {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown profile kind")
	}

	now := time.Now().UTC()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.Status = status.Received
	profile.ApiStatus = status.Received
	profile.ApiError = nil
	profile.CreatedAt = now
	profile.UpdatedAt = now

	if err := s.store.Create(ctx, profile); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist profile", err)
	}
	if s.metrics != nil {
		s.metrics.IncProfilesCreated()
	}
	return profile, nil
}

// Get returns a live profile, read-through: a cached copy is served without
// touching the store, a miss falls through and populates the cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, id); ok {
			return cached, nil
		}
	}
	profile, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

// ApplyScreeningResult writes the reconciled fields in one update and
// refreshes the cached copy so the next read sees the new status.
func (s *Service) ApplyScreeningResult(ctx context.Context, id uuid.UUID, update ScreeningUpdate) (*domain.Profile, error) {
	profile, err := s.store.ApplyScreeningResult(ctx, id, update)
	if err != nil {
		return nil, translateStoreError(err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind) ([]*domain.Profile, error) {
	profiles, err := s.store.List(ctx, userID, kind)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list profiles", err)
	}
	return profiles, nil
}

// Delete soft-deletes; the row stays for audit but vanishes from reads.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return translateStoreError(err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

// SearchResults groups unified search hits by profile kind.
type SearchResults struct {
	Individuals []*domain.Profile `json:"individuals,omitempty"`
	Corporates  []*domain.Profile `json:"corporates,omitempty"`
}

// Total counts hits across both kinds.
func (r SearchResults) Total() int {
	return len(r.Individuals) + len(r.Corporates)
}

// UnifiedSearch queries both profile kinds in parallel, scoped to the
// requesting user. Category "all" (or empty) spans both kinds.
func (s *Service) UnifiedSearch(ctx context.Context, userID uuid.UUID, name, category string) (SearchResults, error) {
	var results SearchResults
	g, ctx := errgroup.WithContext(ctx)

	if category == "" || category == "all" || category == "individual" {
		g.Go(func() error {
			found, err := s.store.SearchByName(ctx, userID, domain.KindIndividual, name)
			if err != nil {
				return err
			}
			results.Individuals = found
			return nil
		})
	}
	if category == "" || category == "all" || category == "corporate" {
		g.Go(func() error {
			found, err := s.store.SearchByName(ctx, userID, domain.KindCorporate, name)
			if err != nil {
				return err
			}
			results.Corporates = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SearchResults{}, dErrors.Wrap(dErrors.CodeInternal, "unified search", err)
	}
	return results, nil
}

// Summary is the dashboard counter set over live profiles.
type Summary struct {
	Accepted int `json:"accepted"`
	Declined int `json:"declined"`
	Pending  int `json:"pending"`
}

// Summary counts live profiles by screening disposition.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var summary Summary

	accepted, err := s.store.CountByStatus(ctx, status.Accepted)
	if err != nil {
		return Summary{}, dErrors.Wrap(dErrors.CodeInternal, "count accepted", err)
	}
	declined, err := s.store.CountByStatus(ctx, status.Declined)
	if err != nil {
		return Summary{}, dErrors.Wrap(dErrors.CodeInternal, "count declined", err)
	}
	summary.Accepted = accepted
	summary.Declined = declined

	for _, raw := range []string{status.Received, status.PendingReview, status.DataChanged, status.StatusChanged} {
		count, err := s.store.CountByStatus(ctx, raw)
		if err != nil {
			return Summary{}, dErrors.Wrap(dErrors.CodeInternal, "count pending", err)
		}
		summary.Pending += count
	}
	return summary, nil
}

func translateStoreError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "profile not found")
	}
	return dErrors.Wrap(dErrors.CodeInternal, "profile store", err)
}
