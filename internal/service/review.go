// Package service provides the review business logic, delegating persistence
// to the store and card selection to the scheduler.
package service

import (
	"context"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
	"github.com/sigongjoa/Concept-Gacha/internal/stats"
)

// Snapshotter defines the read access the review service needs.
type Snapshotter interface {
	// Snapshot returns a consistent copy of the whole dataset.
	Snapshot(ctx context.Context) (models.Dataset, error)
}

// Drawer picks one card out of a candidate set.
type Drawer interface {
	// Draw returns scheduler.ErrNoCards when cards is empty.
	Draw(cards []models.Card) (models.Card, error)
}

// ReviewService implements the draw and stats operations.
type ReviewService struct {
	// store is the underlying dataset owner.
	store Snapshotter
	// drawer performs the weighted selection.
	drawer Drawer
}

// NewReviewService constructs a ReviewService.
func NewReviewService(store Snapshotter, drawer Drawer) *ReviewService {
	return &ReviewService{store: store, drawer: drawer}
}

// DrawRandomCard picks one of the student's cards, favouring lower boxes.
// A student without cards (or an unknown student) yields scheduler.ErrNoCards.
func (s *ReviewService) DrawRandomCard(ctx context.Context, studentID string) (models.Card, error) {
	ds, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.Card{}, err
	}
	return s.drawer.Draw(ds.CardsOf(studentID))
}

// StudentStats counts the student's cards per box.
func (s *ReviewService) StudentStats(ctx context.Context, studentID string) (models.StudentStats, error) {
	ds, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.StudentStats{}, err
	}
	return stats.ForStudent(ds.Cards, studentID), nil
}

// AllStats summarizes every student in listing order.
func (s *ReviewService) AllStats(ctx context.Context) ([]models.StudentSummary, error) {
	ds, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.All(ds), nil
}
