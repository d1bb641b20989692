package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"amlgate/internal/domain"
	"amlgate/internal/platform/middleware"
	"amlgate/internal/profile"
	dErrors "amlgate/pkg/domain-errors"
)

// Screener runs the screening pipeline. Implemented by pipeline.Orchestrator.
type Screener interface {
	ScreenNew(ctx context.Context, p *domain.Profile, requestingUser uuid.UUID) (*domain.Profile, error)
	Rescreen(ctx context.Context, profileID uuid.UUID, requestingUser uuid.UUID) (*domain.Profile, error)
}

// ProfileService is the slice of profile.Service the handlers use.
type ProfileService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	List(ctx context.Context, userID uuid.UUID, kind domain.ProfileKind) ([]*domain.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UnifiedSearch(ctx context.Context, userID uuid.UUID, name, category string) (profile.SearchResults, error)
	Summary(ctx context.Context) (profile.Summary, error)
}

// ProfileHandler serves the profile and screening endpoints.
type ProfileHandler struct {
	logger   *slog.Logger
	screener Screener
	profiles ProfileService
}

func NewProfileHandler(screener Screener, profiles ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		logger:   logger,
		screener: screener,
		profiles: profiles,
	}
}

// Register mounts the profile routes on the router. All routes require an
// authenticated user.
func (h *ProfileHandler) Register(r chi.Router) {
	r.Post("/profiles/individual", h.handleCreate(domain.KindIndividual))
	r.Post("/profiles/corporate", h.handleCreate(domain.KindCorporate))
	r.Get("/profiles", h.handleList)
	r.Get("/profiles/{id}", h.handleGet)
	r.Delete("/profiles/{id}", h.handleDelete)
	r.Post("/profiles/{id}/rescreen", h.handleRescreen)
	r.Post("/search", h.handleSearch)
	r.Get("/dashboard/summary", h.handleSummary)
}

// createProfileRequest carries the identifying attributes the pipeline
// reads. Status and result fields are never writable by clients.
type createProfileRequest struct {
	CustomerName     string            `json:"customerName"`
	DateOfBirth      *time.Time        `json:"dob,omitempty"`
	Nationality      string            `json:"nationality,omitempty"`
	Country          string            `json:"country"`
	Email            string            `json:"email,omitempty"`
	Mobile           string            `json:"mobile,omitempty"`
	IDDetails        []domain.IDDetail `json:"idDetails,omitempty"`
	SearchCategories domain.StringList `json:"searchCategories,omitempty"`
	MatchScore       int               `json:"matchScore,omitempty"`
	IsExactMatch     bool              `json:"isExactMatch,omitempty"`
	IncludeRelatives bool              `json:"includeRelatives,omitempty"`
	IncludeAliases   bool              `json:"includeAliases,omitempty"`
}

func (h *ProfileHandler) handleCreate(kind domain.ProfileKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requestingUser(r)
		if !ok {
			writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
			return
		}

		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
			return
		}

		p := &domain.Profile{
			UserID:           userID,
			Kind:             kind,
			CustomerName:     req.CustomerName,
			DateOfBirth:      req.DateOfBirth,
			Nationality:      req.Nationality,
			Country:          req.Country,
			Email:            req.Email,
			Mobile:           req.Mobile,
			IDDetails:        req.IDDetails,
			SearchCategories: req.SearchCategories,
			MatchScore:       req.MatchScore,
			IsExactMatch:     req.IsExactMatch,
			IncludeRelatives: req.IncludeRelatives,
			IncludeAliases:   req.IncludeAliases,
		}

		// Declines and provider faults are completed runs; only a failure
		// to persist the base profile surfaces as an error here.
		screened, err := h.screener.ScreenNew(r.Context(), p, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, screened)
	}
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid profile id"))
		return
	}

	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUser(r)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	kind := domain.ProfileKind(r.URL.Query().Get("kind"))
	profiles, err := h.profiles.List(r.Context(), userID, kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(profiles),
		"data":  profiles,
	})
}

func (h *ProfileHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid profile id"))
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) handleRescreen(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUser(r)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid profile id"))
		return
	}

	screened, err := h.screener.Rescreen(r.Context(), id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, screened)
}

type searchRequest struct {
	CustomerName string `json:"customerName"`
	Category     string `json:"category"`
}

func (h *ProfileHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUser(r)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	results, err := h.profiles.UnifiedSearch(r.Context(), userID, req.CustomerName, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   results.Total(),
		"results": results,
	})
}

func (h *ProfileHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.profiles.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// requestingUser pulls the authenticated user from the request context.
func requestingUser(r *http.Request) (uuid.UUID, bool) {
	raw := middleware.GetUserID(r.Context())
	if raw == "" {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
