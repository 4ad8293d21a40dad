package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/sigongjoa/Concept-Gacha/internal/assets"
)

// multipartOverhead leaves room for boundaries and headers around the file.
const multipartOverhead = 1 << 20

// AssetStore stores uploaded images.
type AssetStore interface {
	Save(originalName string, r io.Reader) (string, error)
	MaxBytes() int64
}

// UploadHandler handles image uploads for image cards.
type UploadHandler struct {
	Assets AssetStore
}

// uploadResponse carries the reference to store in questionImage.
type uploadResponse struct {
	Filename string `json:"filename"`
}

// Upload handles POST /api/upload with the image in the multipart field "image".
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Assets.MaxBytes()+multipartOverhead)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, assets.ErrTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	name, err := h.Assets.Save(header.Filename, file)
	switch {
	case errors.Is(err, assets.ErrNotImage):
		writeError(w, http.StatusBadRequest, assets.ErrNotImage.Error())
		return
	case errors.Is(err, assets.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, assets.ErrTooLarge.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{Filename: name})
}
