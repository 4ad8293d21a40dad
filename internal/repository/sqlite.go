package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// SQLiteDocumentRepository stores the dataset as a single TEXT row in SQLite.
type SQLiteDocumentRepository struct {
	DB   *sqlx.DB
	Name string
}

// NewSQLiteDocumentRepository creates a repository for the default document.
func NewSQLiteDocumentRepository(db *sqlx.DB) *SQLiteDocumentRepository {
	return &SQLiteDocumentRepository{DB: db, Name: DefaultDocument}
}

func (r *SQLiteDocumentRepository) Load(ctx context.Context) (models.Dataset, error) {
	var body string
	err := r.DB.GetContext(ctx, &body, `SELECT body FROM documents WHERE name = ?`, r.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyDataset(), nil
		}
		return models.Dataset{}, fmt.Errorf("load document %s: %w", r.Name, err)
	}
	return decodeDataset([]byte(body))
}

func (r *SQLiteDocumentRepository) Save(ctx context.Context, ds models.Dataset) error {
	body, err := encodeDataset(ds)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, r.Name, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document %s: %w", r.Name, err)
	}
	return nil
}
