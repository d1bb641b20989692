// Package pipeline sequences one screening attempt end to end: persist the
// profile, build the provider payload, call the provider, reconcile the
// outcome, persist the reconciled fields, and append the audit trail.
//
// No step after profile persistence is fatal. A provider timeout, decline
// or transport fault all converge to a completed run with an error-category
// status recorded on the profile; the caller distinguishes them only by the
// status string.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"amlgate/internal/domain"
	"amlgate/internal/profile"
	"amlgate/internal/screening/payload"
	"amlgate/internal/screening/provider"
	"amlgate/internal/screening/reconcile"
	dErrors "amlgate/pkg/domain-errors"
)

// Checker is the screening client dependency. One attempt per call.
type Checker interface {
	Check(ctx context.Context, req payload.Request) provider.Result
}

// ProfileWriter is the slice of the profile service the pipeline needs.
type ProfileWriter interface {
	Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	ApplyScreeningResult(ctx context.Context, id uuid.UUID, update profile.ScreeningUpdate) (*domain.Profile, error)
}

// Recorder appends audit entries; never fails by contract.
type Recorder interface {
	Record(ctx context.Context, entry domain.SearchHistoryEntry)
}

// ScreeningObserver records pipeline metrics.
type ScreeningObserver interface {
	ObserveScreening(category string)
	ObserveProviderLatency(seconds float64)
}

// Orchestrator runs screening attempts.
type Orchestrator struct {
	profiles ProfileWriter
	builder  *payload.Builder
	checker  Checker
	audit    Recorder
	logger   *slog.Logger
	metrics  ScreeningObserver
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithMetrics(m ScreeningObserver) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

func New(profiles ProfileWriter, builder *payload.Builder, checker Checker, audit Recorder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		profiles: profiles,
		builder:  builder,
		checker:  checker,
		audit:    audit,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ScreenNew persists a fresh profile and runs one screening attempt over
// it. The profile is created before any external call, so the customer
// record exists even when the provider is unreachable; failing that initial
// persistence is the pipeline's only fatal fault.
func (o *Orchestrator) ScreenNew(ctx context.Context, p *domain.Profile, requestingUser uuid.UUID) (*domain.Profile, error) {
	created, err := o.profiles.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	return o.screen(ctx, created, requestingUser)
}

// Rescreen runs another attempt against an existing profile.
func (o *Orchestrator) Rescreen(ctx context.Context, profileID uuid.UUID, requestingUser uuid.UUID) (*domain.Profile, error) {
	existing, err := o.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return o.screen(ctx, existing, requestingUser)
}

func (o *Orchestrator) screen(ctx context.Context, p *domain.Profile, requestingUser uuid.UUID) (*domain.Profile, error) {
	req := o.builder.Build(p)

	start := time.Now()
	result := o.checker.Check(ctx, req)
	if o.metrics != nil {
		o.metrics.ObserveProviderLatency(time.Since(start).Seconds())
	}

	// Reconciliation accepts both result shapes, so a failed call still
	// converges the profile to a terminal status.
	outcome := reconcile.Reconcile(result)

	// Persistence and audit run detached from the caller's cancellation:
	// once the provider call resolved, partial progress must still converge
	// to a terminal status instead of stranding the profile.
	ctx = context.WithoutCancel(ctx)

	updated, err := o.profiles.ApplyScreeningResult(ctx, p.ID, profile.ScreeningUpdate{
		Status:    outcome.Status.Raw,
		ApiStatus: outcome.Status.Raw,
		ApiError:  outcome.ApiError,
		ApiResult: outcome.ApiResultToStore,
	})
	if err != nil {
		// The profile exists but carries a stale status; surface the
		// persistence fault rather than pretending the run completed.
		return nil, dErrors.Wrap(dErrors.CodeInternal, "persist screening result", err)
	}

	if o.metrics != nil {
		o.metrics.ObserveScreening(string(outcome.Status.Category))
	}
	if o.logger != nil {
		o.logger.InfoContext(ctx, "screening completed",
			"profile_id", updated.ID,
			"status", updated.Status,
			"category", string(outcome.Status.Category),
		)
	}

	// Audit attribution needs a real user; system-triggered screenings
	// skip the trail entirely.
	if requestingUser != uuid.Nil {
		o.audit.Record(ctx, domain.SearchHistoryEntry{
			UserID:     requestingUser,
			Query:      updated.CustomerName,
			SearchType: updated.Kind,
			ProfileID:  updated.ID,
			FullQuery:  marshalRequest(req),
			ApiResult:  outcome.ApiResultToStore,
		})
	}

	return updated, nil
}

func marshalRequest(req payload.Request) json.RawMessage {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil
	}
	return raw
}
