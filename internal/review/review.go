// Package review applies review outcomes to a card's Leitner box.
package review

import (
	"time"

	"github.com/sigongjoa/Concept-Gacha/internal/models"
)

// Outcome is the result of a single review.
type Outcome int

const (
	// Failure sends the card back to the first box.
	Failure Outcome = iota
	// Success moves the card up one box, capped at models.MaxBox.
	Success
)

// OutcomeFrom converts the boolean sent by clients.
func OutcomeFrom(success bool) Outcome {
	if success {
		return Success
	}
	return Failure
}

func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failure"
}

// Apply moves c according to o and stamps LastReview with now.
func Apply(c *models.Card, o Outcome, now time.Time) {
	switch o {
	case Success:
		c.Box = min(c.Box+1, models.MaxBox)
		c.SuccessCount++
	default:
		c.Box = models.MinBox
		c.FailCount++
	}
	c.LastReview = &now
}
