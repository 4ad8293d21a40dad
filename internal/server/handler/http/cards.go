package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// CardService defines the card operations required by CardHandler.
type CardService interface {
	ListCards(ctx context.Context, studentID string) ([]models.Card, error)
	AddCard(ctx context.Context, studentID string, in models.CardInput) (models.Card, error)
	GetCard(ctx context.Context, id string) (models.Card, error)
	UpdateCard(ctx context.Context, id string, p models.CardPatch) (models.Card, error)
	DeleteCard(ctx context.Context, id string) error
}

// CardHandler handles card CRUD and review outcomes.
type CardHandler struct {
	CardService CardService
}

// CreateCardRequest is the body of POST /api/students/{id}/cards.
// Every field is optional.
type CreateCardRequest struct {
	Type          string  `json:"type" validate:"omitempty,oneof=text image"`
	Question      string  `json:"question" validate:"max=4000"`
	QuestionImage *string `json:"questionImage" validate:"omitempty,max=255"`
	Answer        string  `json:"answer" validate:"max=4000"`
}

// UpdateCardRequest is the body of PATCH /api/cards/{id}. Absent fields are
// left untouched; "questionImage": null removes the image.
type UpdateCardRequest struct {
	Success       *bool           `json:"success"`
	Question      *string         `json:"question" validate:"omitempty,max=4000"`
	Answer        *string         `json:"answer" validate:"omitempty,max=4000"`
	Type          *string         `json:"type" validate:"omitempty,oneof=text image"`
	QuestionImage json.RawMessage `json:"questionImage"`
}

// patch converts the request into a store patch.
func (req UpdateCardRequest) patch() (models.CardPatch, error) {
	p := models.CardPatch{
		Success:  req.Success,
		Question: req.Question,
		Answer:   req.Answer,
	}
	if req.Type != nil {
		t := models.CardType(*req.Type)
		p.Type = &t
	}

	switch {
	case req.QuestionImage == nil:
	case bytes.Equal(bytes.TrimSpace(req.QuestionImage), []byte("null")):
		p.ClearQuestionImage = true
	default:
		var img string
		if err := json.Unmarshal(req.QuestionImage, &img); err != nil {
			return models.CardPatch{}, err
		}
		if err := validate.Var(img, "max=255"); err != nil {
			return models.CardPatch{}, err
		}
		p.QuestionImage = &img
	}
	return p, nil
}

// List handles GET /api/students/{id}/cards, newest first.
func (h *CardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards, err := h.CardService.ListCards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if cards == nil {
		cards = []models.Card{}
	}
	writeJSON(w, http.StatusOK, cards)
}

// Create handles POST /api/students/{id}/cards.
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	in := models.CardInput{
		Type:     models.CardType(req.Type),
		Question: req.Question,
		Answer:   req.Answer,
	}
	// an empty reference means no image
	if req.QuestionImage != nil && *req.QuestionImage != "" {
		in.QuestionImage = req.QuestionImage
	}

	card, err := h.CardService.AddCard(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Get handles GET /api/cards/{id}.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	card, err := h.CardService.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Update handles PATCH /api/cards/{id}: a review outcome, a content edit, or both.
func (h *CardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCardRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	p, err := req.patch()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid questionImage")
		return
	}

	card, err := h.CardService.UpdateCard(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// Delete handles DELETE /api/cards/{id}.
func (h *CardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CardService.DeleteCard(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
