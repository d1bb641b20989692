package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"amlgate/internal/domain"
	dErrors "amlgate/pkg/domain-errors"
)

// HistoryService is the slice of history.Service the handlers use.
type HistoryService interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SearchHistoryEntry, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// HistoryHandler serves the per-user search-history endpoints.
type HistoryHandler struct {
	logger  *slog.Logger
	history HistoryService
}

func NewHistoryHandler(history HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{logger: logger, history: history}
}

func (h *HistoryHandler) Register(r chi.Router) {
	r.Get("/history", h.handleList)
	r.Delete("/history", h.handleClear)
}

func (h *HistoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUser(r)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	entries, err := h.history.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, dErrors.Wrap(dErrors.CodeInternal, "list history", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(entries),
		"data":  entries,
	})
}

func (h *HistoryHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestingUser(r)
	if !ok {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	removed, err := h.history.ClearByUser(r.Context(), userID)
	if err != nil {
		writeError(w, dErrors.Wrap(dErrors.CodeInternal, "clear history", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
	})
}
