package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sigongjoa/Concept-Gacha/internal/assets"
)

var gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	dir := t.TempDir()
	ds, err := assets.NewDiskStore(dir, 64)
	require.NoError(t, err)
	h := newTestRouter(nil, nil, nil, ds)

	t.Run("stores image", func(t *testing.T) {
		rec := serve(h, multipartRequest(t, "image", "smile.gif", gifHeader))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decodeBody[uploadResponse](t, rec.Body.Bytes())
		assert.Equal(t, ".gif", filepath.Ext(got.Filename))
		body, err := os.ReadFile(filepath.Join(dir, got.Filename))
		require.NoError(t, err)
		assert.Equal(t, gifHeader, body)
	})

	t.Run("not an image", func(t *testing.T) {
		rec := serve(h, multipartRequest(t, "image", "notes.txt", []byte("hello")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("image extension with text body", func(t *testing.T) {
		rec := serve(h, multipartRequest(t, "image", "fake.png", []byte("plain text")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte{}, gifHeader...), bytes.Repeat([]byte{0}, 100)...)
		rec := serve(h, multipartRequest(t, "image", "big.gif", big))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		rec := serve(h, multipartRequest(t, "file", "smile.gif", gifHeader))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "image is required")
	})
}

func TestRouter_ServesAssetsAndStatic(t *testing.T) {
	assetsDir := t.TempDir()
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "a.gif"), gifHeader, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>gacha</h1>"), 0o644))

	ds, err := assets.NewDiskStore(assetsDir, 0)
	require.NoError(t, err)
	h := NewRouter(Handlers{
		Students:  &StudentHandler{StudentService: &fakeStudentService{}},
		Cards:     &CardHandler{CardService: &fakeCardService{}},
		Review:    &ReviewHandler{ReviewService: &fakeReviewService{}},
		Upload:    &UploadHandler{Assets: ds},
		Assets:    ds.Handler(),
		StaticDir: staticDir,
	}, zap.NewNop())

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/assets/a.gif", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gifHeader, rec.Body.Bytes())

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gacha")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/assets/missing.gif", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
