package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// StudentService defines the student operations required by StudentHandler.
type StudentService interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	GetStudent(ctx context.Context, id string) (models.Student, error)
	AddStudent(ctx context.Context, name string) (models.Student, error)
	RenameStudent(ctx context.Context, id, name string) (models.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}

// StudentHandler handles HTTP requests under /api/students.
type StudentHandler struct {
	StudentService StudentService
}

// StudentRequest is the body of POST /api/students and PATCH /api/students/{id}.
type StudentRequest struct {
	// Name is trimmed by the store; whitespace-only names are rejected there.
	Name string `json:"name" validate:"required,max=100"`
}

// List handles GET /api/students.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.StudentService.ListStudents(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

// Get handles GET /api/students/{id}.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.StudentService.GetStudent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Create handles POST /api/students.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req StudentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	st, err := h.StudentService.AddStudent(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Rename handles PATCH /api/students/{id}.
func (h *StudentHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req StudentRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	st, err := h.StudentService.RenameStudent(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Delete handles DELETE /api/students/{id}. The student's cards go with it.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.StudentService.DeleteStudent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
