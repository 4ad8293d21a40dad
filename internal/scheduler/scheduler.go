// Package scheduler picks the next card to review. Cards in lower boxes are
// drawn more often: the weight of a card is 5 - box.
package scheduler

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// ErrNoCards is returned when there is nothing to draw from.
var ErrNoCards = errors.New("scheduler: no cards")

// Weight returns the draw weight of a card sitting in box.
// Out-of-range boxes are clamped so every card stays drawable.
func Weight(box int) int {
	box = max(models.MinBox, min(box, models.MaxBox))
	return models.MaxBox + 1 - box
}

// Scheduler draws cards with probability proportional to Weight.
// It is safe for concurrent use.
type Scheduler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Scheduler reading from src. A nil src seeds from the clock.
func New(src rand.Source) *Scheduler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Scheduler{rng: rand.New(src)}
}

// Draw returns one of cards. The chance of picking card i is
// Weight(i.Box) / sum of all weights.
func (s *Scheduler) Draw(cards []models.Card) (models.Card, error) {
	if len(cards) == 0 {
		return models.Card{}, ErrNoCards
	}

	total := 0
	for _, c := range cards {
		total += Weight(c.Box)
	}

	s.mu.Lock()
	r := s.rng.Intn(total)
	s.mu.Unlock()

	for _, c := range cards {
		r -= Weight(c.Box)
		if r < 0 {
			return c, nil
		}
	}
	// unreachable: r < total
	return cards[len(cards)-1], nil
}
