package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"amlgate/internal/domain"
	"amlgate/internal/platform/middleware"
	"amlgate/internal/profile"
	"amlgate/internal/screening/status"
	"amlgate/internal/transport/http/mocks"
	dErrors "amlgate/pkg/domain-errors"
)

//go:generate mockgen -source=handlers_profile.go -destination=mocks/profile-mocks.go -package=mocks Screener,ProfileService
//go:generate mockgen -source=handlers_history.go -destination=mocks/history-mocks.go -package=mocks HistoryService

type stubValidator struct {
	userID string
}

func (v stubValidator) ValidateToken(token string) (*middleware.JWTClaims, error) {
	if token != "valid-token" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return &middleware.JWTClaims{UserID: v.userID, Role: "analyst"}, nil
}

type RouterSuite struct {
	suite.Suite
	userID   uuid.UUID
	screener *mocks.MockScreener
	profiles *mocks.MockProfileService
	history  *mocks.MockHistoryService
	server   http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.userID = uuid.New()
	s.screener = mocks.NewMockScreener(ctrl)
	s.profiles = mocks.NewMockProfileService(ctrl)
	s.history = mocks.NewMockHistoryService(ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.server = NewRouter(
		NewProfileHandler(s.screener, s.profiles, logger),
		NewHistoryHandler(s.history, logger),
		stubValidator{userID: s.userID.String()},
		logger,
	)
}

func (s *RouterSuite) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	s.T().Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if authed {
		req.Header.Set("Authorization", "Bearer valid-token")
	}
	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) TestHealthzIsOpen() {
	w := s.do(http.MethodGet, "/healthz", nil, false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *RouterSuite) TestMetricsIsOpen() {
	w := s.do(http.MethodGet, "/metrics", nil, false)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *RouterSuite) TestCreateIndividualRunsScreening() {
	s.screener.EXPECT().ScreenNew(gomock.Any(), gomock.Any(), s.userID).DoAndReturn(
		func(_ context.Context, p *domain.Profile, _ uuid.UUID) (*domain.Profile, error) {
			assert.Equal(s.T(), domain.KindIndividual, p.Kind)
			assert.Equal(s.T(), s.userID, p.UserID)
			assert.Equal(s.T(), "Jane Roe", p.CustomerName)
			p.ID = uuid.New()
			p.Status = status.Accepted
			return p, nil
		})

	w := s.do(http.MethodPost, "/profiles/individual", map[string]any{
		"customerName": "Jane Roe",
		"country":      "Ireland",
	}, true)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp domain.Profile
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), status.Accepted, resp.Status)
	assert.NotEqual(s.T(), uuid.Nil, resp.ID)
}

func (s *RouterSuite) TestCreateCorporateSetsKind() {
	s.screener.EXPECT().ScreenNew(gomock.Any(), gomock.Any(), s.userID).DoAndReturn(
		func(_ context.Context, p *domain.Profile, _ uuid.UUID) (*domain.Profile, error) {
			assert.Equal(s.T(), domain.KindCorporate, p.Kind)
			return p, nil
		})

	w := s.do(http.MethodPost, "/profiles/corporate", map[string]any{
		"customerName": "Acme Holdings Ltd",
		"country":      "United Arab Emirates",
	}, true)
	assert.Equal(s.T(), http.StatusCreated, w.Code)
}

func (s *RouterSuite) TestCreateRejectsUnauthenticated() {
	w := s.do(http.MethodPost, "/profiles/individual", map[string]any{
		"customerName": "Jane Roe",
	}, false)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *RouterSuite) TestCreateRejectsMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/profiles/individual", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	s.server.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestGetProfile() {
	id := uuid.New()
	s.profiles.EXPECT().Get(gomock.Any(), id).Return(&domain.Profile{
		ID:     id,
		Status: status.Declined,
	}, nil)

	w := s.do(http.MethodGet, "/profiles/"+id.String(), nil, true)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp domain.Profile
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), status.Declined, resp.Status)
}

func (s *RouterSuite) TestGetProfileNotFound() {
	id := uuid.New()
	s.profiles.EXPECT().Get(gomock.Any(), id).Return(nil, dErrors.New(dErrors.CodeNotFound, "profile not found"))

	w := s.do(http.MethodGet, "/profiles/"+id.String(), nil, true)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestGetProfileRejectsBadID() {
	w := s.do(http.MethodGet, "/profiles/not-a-uuid", nil, true)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestDeleteProfile() {
	id := uuid.New()
	s.profiles.EXPECT().Delete(gomock.Any(), id).Return(nil)

	w := s.do(http.MethodDelete, "/profiles/"+id.String(), nil, true)
	assert.Equal(s.T(), http.StatusNoContent, w.Code)
}

func (s *RouterSuite) TestRescreen() {
	id := uuid.New()
	s.screener.EXPECT().Rescreen(gomock.Any(), id, s.userID).Return(&domain.Profile{
		ID:     id,
		Status: status.Accepted,
	}, nil)

	w := s.do(http.MethodPost, "/profiles/"+id.String()+"/rescreen", nil, true)
	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *RouterSuite) TestUnifiedSearch() {
	s.profiles.EXPECT().UnifiedSearch(gomock.Any(), s.userID, "acme", "sanction").Return(profile.SearchResults{
		Individuals: []*domain.Profile{{ID: uuid.New()}},
		Corporates:  []*domain.Profile{{ID: uuid.New()}},
	}, nil)

	w := s.do(http.MethodPost, "/search", map[string]any{
		"customerName": "acme",
		"category":     "sanction",
	}, true)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), float64(2), resp["count"])
}

func (s *RouterSuite) TestDashboardSummary() {
	s.profiles.EXPECT().Summary(gomock.Any()).Return(profile.Summary{
		Accepted: 4,
		Declined: 1,
		Pending:  2,
	}, nil)

	w := s.do(http.MethodGet, "/dashboard/summary", nil, true)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"accepted":4,"declined":1,"pending":2}`, w.Body.String())
}

func (s *RouterSuite) TestListHistory() {
	s.history.EXPECT().ListByUser(gomock.Any(), s.userID).Return([]domain.SearchHistoryEntry{
		{ID: uuid.New(), UserID: s.userID, Query: "acme"},
	}, nil)

	w := s.do(http.MethodGet, "/history", nil, true)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), float64(1), resp["count"])
}

func (s *RouterSuite) TestClearHistory() {
	s.history.EXPECT().ClearByUser(gomock.Any(), s.userID).Return(int64(3), nil)

	w := s.do(http.MethodDelete, "/history", nil, true)
	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), `{"removed":3}`, w.Body.String())
}

func (s *RouterSuite) TestHistoryRejectsUnauthenticated() {
	w := s.do(http.MethodGet, "/history", nil, false)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}
