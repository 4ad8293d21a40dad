package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// PostgresDocumentRepository stores the dataset as a single JSONB row.
type PostgresDocumentRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	// Name is the primary key of the document row.
	Name string
}

// NewPostgresDocumentRepository creates a repository for the default document.
// db must be a valid connection to a PostgreSQL instance with the documents table.
func NewPostgresDocumentRepository(db *sql.DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{DB: db, Name: DefaultDocument}
}

// Load fetches the document row. No row means nothing was saved yet.
func (r *PostgresDocumentRepository) Load(ctx context.Context) (models.Dataset, error) {
	var body []byte
	err := r.DB.QueryRowContext(ctx, `
		SELECT body FROM documents WHERE name = $1
	`, r.Name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return emptyDataset(), nil
		}
		return models.Dataset{}, fmt.Errorf("load document %s: %w", r.Name, err)
	}
	return decodeDataset(body)
}

// Save upserts the whole document row.
func (r *PostgresDocumentRepository) Save(ctx context.Context, ds models.Dataset) error {
	body, err := encodeDataset(ds)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO documents (name, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`, r.Name, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save document %s: %w", r.Name, err)
	}
	return nil
}
