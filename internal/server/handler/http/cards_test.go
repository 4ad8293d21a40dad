package http

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
	"github.com/sigongjoa/Concept-Gacha/internal/store"
)

func TestCardHandler_Create(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantIn   *models.CardInput
	}{
		{
			name:     "defaults",
			body:     `{}`,
			wantCode: http.StatusOK,
			wantIn:   &models.CardInput{},
		},
		{
			name:     "text card",
			body:     `{"question":"2+2?","answer":"4"}`,
			wantCode: http.StatusOK,
			wantIn:   &models.CardInput{Question: "2+2?", Answer: "4"},
		},
		{
			name:     "empty image reference is no image",
			body:     `{"type":"image","questionImage":"","answer":"mitochondria"}`,
			wantCode: http.StatusOK,
			wantIn:   &models.CardInput{Type: models.ImageCard, Answer: "mitochondria"},
		},
		{
			name:     "unknown type",
			body:     `{"type":"video"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed json",
			body:     `[1,2`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotStudent string
			var gotIn *models.CardInput
			svc := &fakeCardService{AddFunc: func(_ context.Context, studentID string, in models.CardInput) (models.Card, error) {
				gotStudent = studentID
				gotIn = &in
				return models.Card{ID: "c1", StudentID: studentID, Type: models.TextCard, Box: 1}, nil
			}}

			rec := doJSON(t, newTestRouter(nil, svc, nil, nil), http.MethodPost, "/api/students/s1/cards", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantIn == nil {
				assert.Nil(t, gotIn, "service must not be called")
				return
			}
			assert.Equal(t, "s1", gotStudent)
			assert.Equal(t, *tt.wantIn, *gotIn)
		})
	}
}

func TestCardHandler_CreateWithImage(t *testing.T) {
	var gotIn models.CardInput
	svc := &fakeCardService{AddFunc: func(_ context.Context, _ string, in models.CardInput) (models.Card, error) {
		gotIn = in
		return models.Card{ID: "c1"}, nil
	}}

	rec := doJSON(t, newTestRouter(nil, svc, nil, nil), http.MethodPost, "/api/students/s1/cards",
		`{"type":"image","questionImage":"cell.png","answer":"mitochondria"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotIn.QuestionImage)
	assert.Equal(t, "cell.png", *gotIn.QuestionImage)
	assert.Equal(t, models.ImageCard, gotIn.Type)
}

func TestCardHandler_CreateUnknownStudent(t *testing.T) {
	svc := &fakeCardService{AddFunc: func(_ context.Context, studentID string, _ models.CardInput) (models.Card, error) {
		return models.Card{}, fmt.Errorf("%w: student %s", store.ErrNotFound, studentID)
	}}

	rec := doJSON(t, newTestRouter(nil, svc, nil, nil), http.MethodPost, "/api/students/ghost/cards", `{"question":"q"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCardHandler_Update(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantPatch func(t *testing.T, p models.CardPatch)
	}{
		{
			name:     "success outcome",
			body:     `{"success":true}`,
			wantCode: http.StatusOK,
			wantPatch: func(t *testing.T, p models.CardPatch) {
				require.NotNil(t, p.Success)
				assert.True(t, *p.Success)
				assert.Nil(t, p.Question)
				assert.False(t, p.ClearQuestionImage)
				assert.Nil(t, p.QuestionImage)
			},
		},
		{
			name:     "failure outcome",
			body:     `{"success":false}`,
			wantCode: http.StatusOK,
			wantPatch: func(t *testing.T, p models.CardPatch) {
				require.NotNil(t, p.Success)
				assert.False(t, *p.Success)
			},
		},
		{
			name:     "content only",
			body:     `{"question":"new q","answer":"new a","type":"image"}`,
			wantCode: http.StatusOK,
			wantPatch: func(t *testing.T, p models.CardPatch) {
				assert.Nil(t, p.Success)
				require.NotNil(t, p.Question)
				assert.Equal(t, "new q", *p.Question)
				require.NotNil(t, p.Answer)
				assert.Equal(t, "new a", *p.Answer)
				require.NotNil(t, p.Type)
				assert.Equal(t, models.ImageCard, *p.Type)
			},
		},
		{
			name:     "null image clears it",
			body:     `{"questionImage":null}`,
			wantCode: http.StatusOK,
			wantPatch: func(t *testing.T, p models.CardPatch) {
				assert.True(t, p.ClearQuestionImage)
				assert.Nil(t, p.QuestionImage)
			},
		},
		{
			name:     "image set",
			body:     `{"questionImage":"leaf.webp"}`,
			wantCode: http.StatusOK,
			wantPatch: func(t *testing.T, p models.CardPatch) {
				assert.False(t, p.ClearQuestionImage)
				require.NotNil(t, p.QuestionImage)
				assert.Equal(t, "leaf.webp", *p.QuestionImage)
			},
		},
		{name: "image not a string", body: `{"questionImage":42}`, wantCode: http.StatusBadRequest},
		{name: "unknown type", body: `{"type":"audio"}`, wantCode: http.StatusBadRequest},
		{name: "success not a bool", body: `{"success":"yes"}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *models.CardPatch
			svc := &fakeCardService{UpdateFunc: func(_ context.Context, id string, p models.CardPatch) (models.Card, error) {
				got = &p
				return models.Card{ID: id, Box: 2}, nil
			}}

			rec := doJSON(t, newTestRouter(nil, svc, nil, nil), http.MethodPatch, "/api/cards/c1", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantPatch == nil {
				assert.Nil(t, got, "service must not be called")
				return
			}
			require.NotNil(t, got)
			tt.wantPatch(t, *got)
		})
	}
}

func TestCardHandler_ServiceErrors(t *testing.T) {
	notFound := fmt.Errorf("%w: card c9", store.ErrNotFound)
	svc := &fakeCardService{
		GetFunc: func(context.Context, string) (models.Card, error) { return models.Card{}, notFound },
		UpdateFunc: func(context.Context, string, models.CardPatch) (models.Card, error) {
			return models.Card{}, notFound
		},
		ListFunc: func(context.Context, string) ([]models.Card, error) {
			return nil, fmt.Errorf("%w: read failed", store.ErrStorage)
		},
		DeleteFunc: func(context.Context, string) error { return nil },
	}
	h := newTestRouter(nil, svc, nil, nil)

	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodGet, "/api/cards/c9", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, h, http.MethodPatch, "/api/cards/c9", `{"success":true}`).Code)
	assert.Equal(t, http.StatusInternalServerError, doJSON(t, h, http.MethodGet, "/api/students/s1/cards", "").Code)

	rec := doJSON(t, h, http.MethodDelete, "/api/cards/c9", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestCardHandler_ListEmpty(t *testing.T) {
	svc := &fakeCardService{ListFunc: func(context.Context, string) ([]models.Card, error) {
		return nil, nil
	}}
	rec := doJSON(t, newTestRouter(nil, svc, nil, nil), http.MethodGet, "/api/students/s1/cards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
