package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectDocument = `SELECT body FROM documents WHERE name = $1`
	upsertDocument = `INSERT INTO documents (name, body, updated_at)`
)

func setupPostgresMock(t *testing.T) (*PostgresDocumentRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresDocumentRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestPostgresLoad_NoRow(t *testing.T) {
	repo, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectDocument)).
		WithArgs(DefaultDocument).
		WillReturnError(sql.ErrNoRows)

	ds, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Students)
	assert.Empty(t, ds.Cards)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresLoad_Success(t *testing.T) {
	repo, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	body, err := json.Marshal(sampleDataset())
	require.NoError(t, err)
	mock.ExpectQuery(regexp.QuoteMeta(selectDocument)).
		WithArgs(DefaultDocument).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(body))

	ds, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDataset(), ds)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresLoad_Error(t *testing.T) {
	repo, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectDocument)).
		WithArgs(DefaultDocument).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Load(context.Background())
	if err == nil || !regexp.MustCompile(`load document default`).MatchString(err.Error()) {
		t.Errorf("expected load document error, got %v", err)
	}
}

func TestPostgresSave_Success(t *testing.T) {
	repo, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertDocument)).
		WithArgs(DefaultDocument, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), sampleDataset()))

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresSave_Error(t *testing.T) {
	repo, mock, cleanup := setupPostgresMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertDocument)).
		WithArgs(DefaultDocument, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))

	err := repo.Save(context.Background(), sampleDataset())
	assert.ErrorContains(t, err, "disk full")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
