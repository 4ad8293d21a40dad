package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// FileRepository keeps the dataset as a JSON file on disk.
type FileRepository struct {
	// Path is the location of the JSON document.
	Path string
}

// NewFileRepository creates a FileRepository for path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path}
}

// Load reads the document. A missing file yields an empty dataset; any other
// failure is returned.
func (r *FileRepository) Load(ctx context.Context) (models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return models.Dataset{}, err
	}
	body, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptyDataset(), nil
		}
		return models.Dataset{}, fmt.Errorf("read %s: %w", r.Path, err)
	}
	return decodeDataset(body)
}

// Save replaces the document. The new content is written to a temporary file
// in the same directory and renamed over the old one, so readers see either
// the old or the new document.
func (r *FileRepository) Save(ctx context.Context, ds models.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := encodeDataset(ds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), r.Path); err != nil {
		return fmt.Errorf("replace %s: %w", r.Path, err)
	}
	return nil
}
