// Package assets stores uploaded question images on disk and hands back an
// opaque reference (the file name) that cards keep in questionImage.
package assets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxBytes is the upload limit used when none is configured.
const DefaultMaxBytes = 10 << 20

var (
	// ErrNotImage is returned for files that are not jpeg, png, gif or webp.
	ErrNotImage = errors.New("assets: only image files can be uploaded")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("assets: file too large")
)

// allowed maps file extensions to the content type sniffed from the body.
var allowed = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// DiskStore keeps images in a single directory.
type DiskStore struct {
	dir      string
	maxBytes int64
}

// NewDiskStore creates dir if needed. maxBytes <= 0 means DefaultMaxBytes.
func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory images are stored in.
func (s *DiskStore) Dir() string { return s.dir }

// MaxBytes returns the upload size limit.
func (s *DiskStore) MaxBytes() int64 { return s.maxBytes }

// Save validates and stores an upload named originalName, returning the
// reference to put into a card.
func (s *DiskStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	wantType, ok := allowed[ext]
	if !ok {
		return "", ErrNotImage
	}

	body, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return "", ErrTooLarge
	}
	sniffed := http.DetectContentType(body)
	if sniffed != wantType {
		return "", fmt.Errorf("%w: got %s", ErrNotImage, sniffed)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), body, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes the image with the given reference. Unknown names are ignored.
func (s *DiskStore) Remove(name string) error {
	if name != filepath.Base(name) {
		return fmt.Errorf("assets: invalid name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Handler serves the stored images.
func (s *DiskStore) Handler() http.Handler {
	return http.FileServer(http.Dir(s.dir))
}
