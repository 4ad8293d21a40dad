package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

type fakeStudentService struct {
	ListFunc   func(ctx context.Context) ([]models.Student, error)
	GetFunc    func(ctx context.Context, id string) (models.Student, error)
	AddFunc    func(ctx context.Context, name string) (models.Student, error)
	RenameFunc func(ctx context.Context, id, name string) (models.Student, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (f *fakeStudentService) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.ListFunc(ctx)
}

func (f *fakeStudentService) GetStudent(ctx context.Context, id string) (models.Student, error) {
	return f.GetFunc(ctx, id)
}

func (f *fakeStudentService) AddStudent(ctx context.Context, name string) (models.Student, error) {
	return f.AddFunc(ctx, name)
}

func (f *fakeStudentService) RenameStudent(ctx context.Context, id, name string) (models.Student, error) {
	return f.RenameFunc(ctx, id, name)
}

func (f *fakeStudentService) DeleteStudent(ctx context.Context, id string) error {
	return f.DeleteFunc(ctx, id)
}

type fakeCardService struct {
	ListFunc   func(ctx context.Context, studentID string) ([]models.Card, error)
	AddFunc    func(ctx context.Context, studentID string, in models.CardInput) (models.Card, error)
	GetFunc    func(ctx context.Context, id string) (models.Card, error)
	UpdateFunc func(ctx context.Context, id string, p models.CardPatch) (models.Card, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (f *fakeCardService) ListCards(ctx context.Context, studentID string) ([]models.Card, error) {
	return f.ListFunc(ctx, studentID)
}

func (f *fakeCardService) AddCard(ctx context.Context, studentID string, in models.CardInput) (models.Card, error) {
	return f.AddFunc(ctx, studentID, in)
}

func (f *fakeCardService) GetCard(ctx context.Context, id string) (models.Card, error) {
	return f.GetFunc(ctx, id)
}

func (f *fakeCardService) UpdateCard(ctx context.Context, id string, p models.CardPatch) (models.Card, error) {
	return f.UpdateFunc(ctx, id, p)
}

func (f *fakeCardService) DeleteCard(ctx context.Context, id string) error {
	return f.DeleteFunc(ctx, id)
}

type fakeReviewService struct {
	DrawFunc         func(ctx context.Context, studentID string) (models.Card, error)
	StudentStatsFunc func(ctx context.Context, studentID string) (models.StudentStats, error)
	AllStatsFunc     func(ctx context.Context) ([]models.StudentSummary, error)
}

func (f *fakeReviewService) DrawRandomCard(ctx context.Context, studentID string) (models.Card, error) {
	return f.DrawFunc(ctx, studentID)
}

func (f *fakeReviewService) StudentStats(ctx context.Context, studentID string) (models.StudentStats, error) {
	return f.StudentStatsFunc(ctx, studentID)
}

func (f *fakeReviewService) AllStats(ctx context.Context) ([]models.StudentSummary, error) {
	return f.AllStatsFunc(ctx)
}

// newTestRouter mounts the given fakes; nil services are replaced with empty fakes.
func newTestRouter(st *fakeStudentService, cs *fakeCardService, rs *fakeReviewService, up AssetStore) http.Handler {
	if st == nil {
		st = &fakeStudentService{}
	}
	if cs == nil {
		cs = &fakeCardService{}
	}
	if rs == nil {
		rs = &fakeReviewService{}
	}
	return NewRouter(Handlers{
		Students: &StudentHandler{StudentService: st},
		Cards:    &CardHandler{CardService: cs},
		Review:   &ReviewHandler{ReviewService: rs},
		Upload:   &UploadHandler{Assets: up},
	}, zap.NewNop())
}

// doJSON sends body (may be empty) as application/json through h.
func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path, body string) *http.Request {
	return httptest.NewRequest(method, path, strings.NewReader(body))
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
