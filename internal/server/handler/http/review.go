package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// ReviewService defines the draw and stats operations required by ReviewHandler.
type ReviewService interface {
	DrawRandomCard(ctx context.Context, studentID string) (models.Card, error)
	StudentStats(ctx context.Context, studentID string) (models.StudentStats, error)
	AllStats(ctx context.Context) ([]models.StudentSummary, error)
}

// ReviewHandler serves the weighted draw and the stats endpoints.
type ReviewHandler struct {
	ReviewService ReviewService
}

// Random handles GET /api/students/{id}/cards/random.
// A student without cards gets 404.
func (h *ReviewHandler) Random(w http.ResponseWriter, r *http.Request) {
	card, err := h.ReviewService.DrawRandomCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// StudentStats handles GET /api/students/{id}/stats.
func (h *ReviewHandler) StudentStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.ReviewService.StudentStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// AllStats handles GET /api/stats/all.
func (h *ReviewHandler) AllStats(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.ReviewService.AllStats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
