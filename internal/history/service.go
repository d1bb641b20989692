// Package history is the append-only audit trail of screening attempts.
// Recording is best-effort: the screening outcome is already authoritative,
// so a failed history write is reported and swallowed, never propagated.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"amlgate/internal/domain"
)

// Store persists history entries. Memory and postgres implementations live
// alongside; tests swap sinks freely.
type Store interface {
	Append(ctx context.Context, entry domain.SearchHistoryEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SearchHistoryEntry, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Mirror fans entries out to a secondary sink (Kafka). Always fire-and-forget.
type Mirror interface {
	Publish(ctx context.Context, entry domain.SearchHistoryEntry)
}

// FailureCounter records swallowed append failures for operational visibility.
type FailureCounter interface {
	IncHistoryAppendFailures()
}

// Service captures search-history entries. Append-only; the one mutation is
// the per-user bulk clear.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics FailureCounter
	mirror  Mirror
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m FailureCounter) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithMirror(m Mirror) Option {
	return func(s *Service) {
		s.mirror = m
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends one history entry. It never returns an error: persistence
// failures are logged and counted but must not abort the parent pipeline.
func (s *Service) Record(ctx context.Context, entry domain.SearchHistoryEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := s.store.Append(ctx, entry); err != nil {
		if s.metrics != nil {
			s.metrics.IncHistoryAppendFailures()
		}
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "search history append failed",
				"user_id", entry.UserID,
				"profile_id", entry.ProfileID,
				"error", err,
			)
		}
		return
	}

	if s.mirror != nil {
		s.mirror.Publish(ctx, entry)
	}
}

// ListByUser returns the requesting user's history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SearchHistoryEntry, error) {
	return s.store.ListByUser(ctx, userID)
}

// ClearByUser removes every entry for one user and reports how many went.
func (s *Service) ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.ClearByUser(ctx, userID)
}
