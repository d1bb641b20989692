// Package reconcile interprets raw provider outcomes against the status
// taxonomy and decides what gets written back to the profile.
package reconcile

import (
	"encoding/json"
	"time"

	"amlgate/internal/domain"
	"amlgate/internal/screening/provider"
	"amlgate/internal/screening/status"
)

// EventSource tags where a raw status string came from, making the
// reconciler's total-function contract explicit instead of relying on
// optional chaining over response shapes.
type EventSource string

const (
	SourceProvider      EventSource = "provider"
	SourceClientFailure EventSource = "client_failure"
)

// RawEvent is the single tagged value the classifier consumes.
type RawEvent struct {
	Source EventSource
	Value  string
}

// Outcome is what one reconciliation decides: the status to persist (exact
// provider vocabulary), the error record when the taxonomy demands one, and
// the raw result stored for forensic replay.
type Outcome struct {
	Status           status.Classification
	ApiError         *domain.ApiError
	ApiResultToStore json.RawMessage
}

// providerBody is the subset of the provider response the gateway consumes.
// Every field may be absent; absence never fails reconciliation.
type providerBody struct {
	Event  string `json:"event"`
	Status string `json:"status"`
	Error  struct {
		Service string `json:"service"`
		Field   string `json:"field"`
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Reconcile turns a screening client result into the fields to persist.
// Total over both result shapes; never panics on malformed bodies.
func Reconcile(result provider.Result) Outcome {
	if !result.OK {
		return reconcileFailure(result)
	}

	var body providerBody
	// A body the gateway cannot parse classifies fail-closed below: the
	// empty event string is not in the taxonomy.
	_ = json.Unmarshal(result.Body, &body)

	raw := RawEvent{Source: SourceProvider, Value: body.Event}
	if raw.Value == "" {
		raw.Value = body.Status
	}

	classified := status.Classify(raw.Value)
	outcome := Outcome{
		Status:           classified,
		ApiResultToStore: result.Body,
	}
	if classified.IsError() {
		outcome.ApiError = &domain.ApiError{
			Event:     classified.Raw,
			Service:   body.Error.Service,
			Field:     body.Error.Field,
			Message:   body.Error.Message,
			Code:      body.Error.Code,
			Timestamp: time.Now().UTC(),
			FullError: result.Body,
		}
	}
	return outcome
}

func reconcileFailure(result provider.Result) Outcome {
	raw := RawEvent{Source: SourceClientFailure, Value: sentinelFor(result.Kind)}
	classified := status.Classify(raw.Value)

	stored, _ := json.Marshal(map[string]string{
		"event":  classified.Raw,
		"detail": result.Detail,
	})

	return Outcome{
		Status:           classified,
		ApiResultToStore: stored,
		ApiError: &domain.ApiError{
			Event:     classified.Raw,
			Message:   result.Detail,
			Timestamp: time.Now().UTC(),
			FullError: stored,
		},
	}
}

func sentinelFor(kind provider.FailureKind) string {
	switch kind {
	case provider.FailureTimeout:
		return status.SentinelTimeout
	case provider.FailureCredentialsMissing:
		return status.SentinelSkipped
	case provider.FailureTransportError:
		return status.SentinelError
	default:
		return status.SentinelNoResult
	}
}
