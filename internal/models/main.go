// Package models defines the core data structures for students, cards and the
// persisted dataset document.
package models

import (
	"fmt"
	"time"
)

// Box bounds. A card in MinBox is the least known, MaxBox is "mastered".
const (
	MinBox = 1
	MaxBox = 4
)

// CardType selects which field of a card carries the prompt.
type CardType string

const (
	// TextCard prompts with Question.
	TextCard CardType = "text"
	// ImageCard prompts with the image referenced by QuestionImage.
	ImageCard CardType = "image"
)

// Valid reports whether t is a recognized card type.
func (t CardType) Valid() bool {
	return t == TextCard || t == ImageCard
}

// Student owns a set of cards.
type Student struct {
	// ID is the unique identifier for the student.
	ID string `json:"id"`
	// Name is unique across students after trimming whitespace.
	Name string `json:"name"`
	// CreatedAt is set once when the student is added.
	CreatedAt time.Time `json:"createdAt"`
}

// Card is a single flashcard in one of the Leitner boxes.
type Card struct {
	// ID is the unique identifier for the card.
	ID string `json:"id"`
	// StudentID references the owning student and is never reassigned.
	StudentID string `json:"studentId"`
	// Type is "text" or "image".
	Type CardType `json:"type"`
	// Question is the text prompt; may be empty for image cards.
	Question string `json:"question"`
	// QuestionImage is an opaque reference returned by the asset store.
	QuestionImage *string `json:"questionImage"`
	// Answer is shown after the prompt.
	Answer string `json:"answer"`
	// Box is the Leitner box, MinBox..MaxBox.
	Box int `json:"box"`
	// SuccessCount counts successful reviews.
	SuccessCount int `json:"successCount"`
	// FailCount counts failed reviews.
	FailCount int `json:"failCount"`
	// CreatedAt is set once when the card is added.
	CreatedAt time.Time `json:"createdAt"`
	// LastReview is nil until the first outcome is applied.
	LastReview *time.Time `json:"lastReview"`
}

// Dataset is the whole persisted document.
type Dataset struct {
	Students []Student `json:"students"`
	Cards    []Card    `json:"cards"`
}

// Clone returns a deep copy so callers can mutate it without touching d.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Students: make([]Student, len(d.Students)),
		Cards:    make([]Card, len(d.Cards)),
	}
	copy(out.Students, d.Students)
	for i, c := range d.Cards {
		out.Cards[i] = c.Clone()
	}
	return out
}

// Clone returns a copy of c that shares no pointers with it.
func (c Card) Clone() Card {
	if c.QuestionImage != nil {
		img := *c.QuestionImage
		c.QuestionImage = &img
	}
	if c.LastReview != nil {
		at := *c.LastReview
		c.LastReview = &at
	}
	return c
}

// CardsOf returns the cards owned by studentID in dataset order.
func (d Dataset) CardsOf(studentID string) []Card {
	var cards []Card
	for _, c := range d.Cards {
		if c.StudentID == studentID {
			cards = append(cards, c)
		}
	}
	return cards
}

// CardInput holds the content of a new card. Zero values are the defaults:
// an empty Type means TextCard, a nil QuestionImage means no image.
type CardInput struct {
	Type          CardType
	Question      string
	QuestionImage *string
	Answer        string
}

// Normalize fills defaults and checks the type.
func (in CardInput) Normalize() (CardInput, error) {
	if in.Type == "" {
		in.Type = TextCard
	}
	if !in.Type.Valid() {
		return in, fmt.Errorf("unknown card type %q", in.Type)
	}
	return in, nil
}

// CardPatch lists the fields to change on an existing card. Nil fields are
// left untouched. ClearQuestionImage removes the image reference.
type CardPatch struct {
	Question           *string
	Answer             *string
	Type               *CardType
	QuestionImage      *string
	ClearQuestionImage bool
	// Success applies a review outcome when non-nil.
	Success *bool
}

// StudentStats counts one student's cards by box.
type StudentStats struct {
	Total int `json:"total"`
	Box1  int `json:"box1"`
	Box2  int `json:"box2"`
	Box3  int `json:"box3"`
	Box4  int `json:"box4"`
}

// StudentSummary is one row of the overview across all students.
type StudentSummary struct {
	Student Student `json:"student"`
	Total   int     `json:"total"`
	Box1    int     `json:"box1"`
	Box4    int     `json:"box4"`
}
