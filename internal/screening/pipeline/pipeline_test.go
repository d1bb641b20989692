package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amlgate/internal/domain"
	"amlgate/internal/history"
	"amlgate/internal/profile"
	"amlgate/internal/screening/payload"
	"amlgate/internal/screening/provider"
	"amlgate/internal/screening/status"
)

type fixture struct {
	orchestrator *Orchestrator
	profiles     *profile.Service
	historyStore *history.InMemoryStore
	mock         *provider.MockClient
}

func newFixture(t *testing.T, result provider.Result) *fixture {
	t.Helper()
	profiles := profile.NewService(profile.NewInMemoryStore())
	historyStore := history.NewInMemoryStore()
	mock := &provider.MockClient{Result: result}
	orchestrator := New(profiles, payload.New(), mock, history.NewService(historyStore))
	return &fixture{
		orchestrator: orchestrator,
		profiles:     profiles,
		historyStore: historyStore,
		mock:         mock,
	}
}

func janeRoe() *domain.Profile {
	dob := time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC)
	return &domain.Profile{
		Kind:         domain.KindIndividual,
		CustomerName: "Jane Roe",
		DateOfBirth:  &dob,
		Country:      "United Arab Emirates",
	}
}

func TestScreenNew_Accepted(t *testing.T) {
	f := newFixture(t, provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted","hits":0}`)})
	user := uuid.New()

	updated, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), user)
	require.NoError(t, err)

	assert.Equal(t, status.Accepted, updated.Status)
	assert.Equal(t, status.Accepted, updated.ApiStatus)
	assert.Nil(t, updated.ApiError)
	assert.NotEmpty(t, updated.ApiResult)

	entries, err := f.historyStore.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Jane Roe", entries[0].Query)
}

// A declined screening with error detail ends as a completed
// run carrying the decline, plus exactly one history entry.
func TestScreenNew_DeclineScenario(t *testing.T) {
	body := []byte(`{"event":"verification.declined","error":{"service":"background_checks","message":"name mismatch"}}`)
	f := newFixture(t, provider.Result{OK: true, Body: body})
	user := uuid.New()

	updated, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), user)
	require.NoError(t, err)

	assert.Equal(t, status.Declined, updated.Status)
	require.NotNil(t, updated.ApiError)
	assert.Equal(t, "background_checks", updated.ApiError.Service)
	assert.Equal(t, "name mismatch", updated.ApiError.Message)

	// Payload was built from the profile: AE country, default filters.
	require.Len(t, f.mock.Calls, 1)
	assert.Equal(t, "AE", f.mock.Calls[0].Country)
	assert.Equal(t, payload.DefaultFilters, f.mock.Calls[0].Filters)

	entries, err := f.historyStore.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.KindIndividual, entries[0].SearchType)
	assert.Equal(t, updated.ID, entries[0].ProfileID)
	assert.JSONEq(t, string(body), string(entries[0].ApiResult))
}

// A timed-out provider call still completes the pipeline
// with the timeout sentinel recorded, and no error escapes.
func TestScreenNew_TimeoutScenario(t *testing.T) {
	f := newFixture(t, provider.Failed(provider.FailureTimeout, "context deadline exceeded"))

	updated, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, status.SentinelTimeout, updated.Status)
	require.NotNil(t, updated.ApiError)
	assert.Equal(t, status.SentinelTimeout, updated.ApiError.Event)
}

func TestScreenNew_CredentialsMissing(t *testing.T) {
	f := newFixture(t, provider.Failed(provider.FailureCredentialsMissing, "provider credentials not configured"))

	updated, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, status.SentinelSkipped, updated.Status)
	require.NotNil(t, updated.ApiError)
}

func TestScreenNew_InvalidProfileIsFatal(t *testing.T) {
	f := newFixture(t, provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)})

	_, err := f.orchestrator.ScreenNew(context.Background(), &domain.Profile{Kind: domain.KindIndividual}, uuid.New())
	require.Error(t, err)
	assert.Empty(t, f.mock.Calls, "provider must not be called when the base profile cannot persist")
}

type explodingHistoryStore struct{ history.InMemoryStore }

func (e *explodingHistoryStore) Append(context.Context, domain.SearchHistoryEntry) error {
	return errors.New("history store down")
}

// An audit persistence failure never propagates out of the pipeline and the
// returned profile still reflects the reconciled status.
func TestScreenNew_AuditFailureSwallowed(t *testing.T) {
	profiles := profile.NewService(profile.NewInMemoryStore())
	mock := &provider.MockClient{Result: provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)}}
	orchestrator := New(profiles, payload.New(), mock, history.NewService(&explodingHistoryStore{}))

	updated, err := orchestrator.ScreenNew(context.Background(), janeRoe(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, status.Accepted, updated.Status)
}

func TestScreenNew_SystemTriggeredSkipsAudit(t *testing.T) {
	f := newFixture(t, provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)})

	_, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), uuid.Nil)
	require.NoError(t, err)

	entries, err := f.historyStore.ListByUser(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// A later successful reconciliation clears the ApiError from a previous
// failed attempt.
func TestRescreen_ClearsPreviousError(t *testing.T) {
	f := newFixture(t, provider.Failed(provider.FailureTimeout, "deadline"))
	user := uuid.New()

	failed, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), user)
	require.NoError(t, err)
	require.NotNil(t, failed.ApiError)

	f.mock.Result = provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)}

	recovered, err := f.orchestrator.Rescreen(context.Background(), failed.ID, user)
	require.NoError(t, err)
	assert.Equal(t, status.Accepted, recovered.Status)
	assert.Nil(t, recovered.ApiError)

	entries, err := f.historyStore.ListByUser(context.Background(), user)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "each attempt appends its own history entry")
}

func TestRescreen_UnknownProfile(t *testing.T) {
	f := newFixture(t, provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)})

	_, err := f.orchestrator.Rescreen(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
}

// Cancellation mid-call still converges the profile to a terminal
// error-category status instead of stranding it.
func TestScreenNew_CancelledCallerContext(t *testing.T) {
	f := newFixture(t, provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)})
	f.mock.Latency = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	updated, err := f.orchestrator.ScreenNew(ctx, janeRoe(), uuid.New())
	require.NoError(t, err)

	assert.True(t, status.Classify(updated.Status).IsError())
	require.NotNil(t, updated.ApiError)
}

// End to end over real HTTP: the wire client posts the built payload with
// Basic auth, the provider's decline body flows through reconciliation into
// the stored profile and the history entry.
func TestScreenNew_OverHTTP(t *testing.T) {
	declineBody := `{"event":"verification.declined","error":{"service":"background_checks","message":"name mismatch"}}`

	var received payload.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, secret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "gateway", user)
		assert.Equal(t, "s3cret", secret)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(declineBody))
	}))
	defer srv.Close()

	profiles := profile.NewService(profile.NewInMemoryStore())
	historyStore := history.NewInMemoryStore()
	client := provider.NewClient(provider.Config{BaseURL: srv.URL, Username: "gateway", Secret: "s3cret"})
	orchestrator := New(profiles, payload.New(), client, history.NewService(historyStore))
	user := uuid.New()

	updated, err := orchestrator.ScreenNew(context.Background(), janeRoe(), user)
	require.NoError(t, err)

	assert.Equal(t, "AE", received.Country)
	assert.Equal(t, "Jane", received.FirstName)

	assert.Equal(t, status.Declined, updated.Status)
	require.NotNil(t, updated.ApiError)
	assert.Equal(t, "background_checks", updated.ApiError.Service)
	assert.JSONEq(t, declineBody, string(updated.ApiResult))

	entries, err := historyStore.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, declineBody, string(entries[0].ApiResult))
}

func TestScreenNew_HistoryCarriesFullQuery(t *testing.T) {
	f := newFixture(t, provider.Result{OK: true, Body: []byte(`{"event":"verification.accepted"}`)})
	user := uuid.New()

	_, err := f.orchestrator.ScreenNew(context.Background(), janeRoe(), user)
	require.NoError(t, err)

	entries, err := f.historyStore.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	var sent payload.Request
	require.NoError(t, json.Unmarshal(entries[0].FullQuery, &sent))
	assert.Equal(t, "Jane", sent.FirstName)
	assert.Equal(t, "AE", sent.Country)
}
