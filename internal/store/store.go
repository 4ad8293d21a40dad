// Package store owns the students and cards of the trainer. Each operation
// loads the whole dataset from the repository, changes it and saves it back
// while holding a single-writer lock, so concurrent calls cannot interleave
// and lose each other's updates.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
	"github.com/sigongjoa/Concept-Gacha/internal/review"
)

// Sentinel errors. Use errors.Is to check them.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
)

// DocumentRepository loads and saves the whole dataset document.
type DocumentRepository interface {
	// Load returns the stored dataset, or an empty one if nothing was saved yet.
	Load(ctx context.Context) (models.Dataset, error)
	// Save replaces the stored dataset.
	Save(ctx context.Context, ds models.Dataset) error
}

// Store serializes every read-modify-write cycle against a DocumentRepository.
type Store struct {
	repo  DocumentRepository
	mu    sync.RWMutex
	now   func() time.Time
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates a Store backed by repo.
func New(repo DocumentRepository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// view loads the dataset under the read lock.
func (s *Store) view(ctx context.Context) (models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, err := s.repo.Load(ctx)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return ds, nil
}

// update runs fn on a freshly loaded dataset and saves the result. The write
// lock is held from load to save. Nothing is saved when fn fails.
func (s *Store) update(ctx context.Context, fn func(ds *models.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := fn(&ds); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, ds); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Snapshot returns a copy of the current dataset for read-only consumers.
func (s *Store) Snapshot(ctx context.Context) (models.Dataset, error) {
	ds, err := s.view(ctx)
	if err != nil {
		return models.Dataset{}, err
	}
	return ds.Clone(), nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return name, nil
}

func findStudent(ds *models.Dataset, id string) int {
	for i, st := range ds.Students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func findCard(ds *models.Dataset, id string) int {
	for i, c := range ds.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// nameTaken reports whether another student than exceptID already uses name.
func nameTaken(ds *models.Dataset, name, exceptID string) bool {
	for _, st := range ds.Students {
		if st.ID != exceptID && st.Name == name {
			return true
		}
	}
	return false
}

// ListStudents returns all students in creation order.
func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	ds, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Students, nil
}

// GetStudent returns the student with id.
func (s *Store) GetStudent(ctx context.Context, id string) (models.Student, error) {
	ds, err := s.view(ctx)
	if err != nil {
		return models.Student{}, err
	}
	i := findStudent(&ds, id)
	if i < 0 {
		return models.Student{}, fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	return ds.Students[i], nil
}

// AddStudent creates a student. The name is trimmed and must be unique.
func (s *Store) AddStudent(ctx context.Context, name string) (models.Student, error) {
	name, err := normalizeName(name)
	if err != nil {
		return models.Student{}, err
	}

	var created models.Student
	err = s.update(ctx, func(ds *models.Dataset) error {
		if nameTaken(ds, name, "") {
			return fmt.Errorf("%w: student %q already exists", ErrConflict, name)
		}
		created = models.Student{
			ID:        s.newID(),
			Name:      name,
			CreatedAt: s.now(),
		}
		ds.Students = append(ds.Students, created)
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return created, nil
}

// RenameStudent changes the name of student id, with the same rules as AddStudent.
func (s *Store) RenameStudent(ctx context.Context, id, name string) (models.Student, error) {
	name, err := normalizeName(name)
	if err != nil {
		return models.Student{}, err
	}

	var renamed models.Student
	err = s.update(ctx, func(ds *models.Dataset) error {
		i := findStudent(ds, id)
		if i < 0 {
			return fmt.Errorf("%w: student %s", ErrNotFound, id)
		}
		if nameTaken(ds, name, id) {
			return fmt.Errorf("%w: student %q already exists", ErrConflict, name)
		}
		ds.Students[i].Name = name
		renamed = ds.Students[i]
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return renamed, nil
}

// DeleteStudent removes student id and all of its cards in the same save.
// Deleting an unknown id succeeds.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	return s.update(ctx, func(ds *models.Dataset) error {
		students := ds.Students[:0]
		for _, st := range ds.Students {
			if st.ID != id {
				students = append(students, st)
			}
		}
		ds.Students = students

		cards := ds.Cards[:0]
		for _, c := range ds.Cards {
			if c.StudentID != id {
				cards = append(cards, c)
			}
		}
		ds.Cards = cards
		return nil
	})
}

// ListCards returns the cards of studentID, newest first.
func (s *Store) ListCards(ctx context.Context, studentID string) ([]models.Card, error) {
	ds, err := s.view(ctx)
	if err != nil {
		return nil, err
	}
	cards := ds.CardsOf(studentID)
	if cards == nil {
		cards = []models.Card{}
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].CreatedAt.After(cards[j].CreatedAt)
	})
	return cards, nil
}

// AddCard creates a card in box 1 for an existing student.
func (s *Store) AddCard(ctx context.Context, studentID string, in models.CardInput) (models.Card, error) {
	in, err := in.Normalize()
	if err != nil {
		return models.Card{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var created models.Card
	err = s.update(ctx, func(ds *models.Dataset) error {
		if findStudent(ds, studentID) < 0 {
			return fmt.Errorf("%w: student %s", ErrNotFound, studentID)
		}
		created = models.Card{
			ID:            s.newID(),
			StudentID:     studentID,
			Type:          in.Type,
			Question:      in.Question,
			QuestionImage: in.QuestionImage,
			Answer:        in.Answer,
			Box:           models.MinBox,
			CreatedAt:     s.now(),
		}
		ds.Cards = append(ds.Cards, created)
		return nil
	})
	if err != nil {
		return models.Card{}, err
	}
	return created.Clone(), nil
}

// GetCard returns the card with id.
func (s *Store) GetCard(ctx context.Context, id string) (models.Card, error) {
	ds, err := s.view(ctx)
	if err != nil {
		return models.Card{}, err
	}
	i := findCard(&ds, id)
	if i < 0 {
		return models.Card{}, fmt.Errorf("%w: card %s", ErrNotFound, id)
	}
	return ds.Cards[i], nil
}

// UpdateCard applies the fields present in p. A non-nil p.Success moves the
// card between boxes; content-only patches leave box and counters alone.
func (s *Store) UpdateCard(ctx context.Context, id string, p models.CardPatch) (models.Card, error) {
	if p.Type != nil && !p.Type.Valid() {
		return models.Card{}, fmt.Errorf("%w: unknown card type %q", ErrInvalidInput, *p.Type)
	}

	var updated models.Card
	err := s.update(ctx, func(ds *models.Dataset) error {
		i := findCard(ds, id)
		if i < 0 {
			return fmt.Errorf("%w: card %s", ErrNotFound, id)
		}
		c := &ds.Cards[i]

		if p.Success != nil {
			review.Apply(c, review.OutcomeFrom(*p.Success), s.now())
		}
		if p.Question != nil {
			c.Question = *p.Question
		}
		if p.Answer != nil {
			c.Answer = *p.Answer
		}
		if p.Type != nil {
			c.Type = *p.Type
		}
		switch {
		case p.ClearQuestionImage:
			c.QuestionImage = nil
		case p.QuestionImage != nil:
			img := *p.QuestionImage
			c.QuestionImage = &img
		}

		updated = c.Clone()
		return nil
	})
	if err != nil {
		return models.Card{}, err
	}
	return updated, nil
}

// DeleteCard removes card id. Deleting an unknown id succeeds.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	return s.update(ctx, func(ds *models.Dataset) error {
		cards := ds.Cards[:0]
		for _, c := range ds.Cards {
			if c.ID != id {
				cards = append(cards, c)
			}
		}
		ds.Cards = cards
		return nil
	})
}
