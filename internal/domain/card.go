package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Initial scheduling state for a freshly authored card.
const (
	InitialEase     = 2.3
	InitialInterval = 0.0
)

// Card represents a single front/back flashcard and its scheduling state.
// Timestamps are milliseconds since the Unix epoch.
type Card struct {
	ID           string  `json:"id" validate:"required"`
	DeckID       string  `json:"deckId" validate:"required"`
	Front        string  `json:"front" validate:"required"`
	Back         string  `json:"back"`
	DueAt        int64   `json:"dueAt"`
	IntervalDays float64 `json:"intervalDays" validate:"gte=0"`
	Ease         float64 `json:"ease" validate:"gte=1.3"`
	Reps         int     `json:"reps" validate:"gte=0"`
	Lapses       int     `json:"lapses" validate:"gte=0,ltefield=Reps"`
	UpdatedAt    int64   `json:"updatedAt"`
	// Source names the card source a synced card came from. Empty for
	// cards authored by hand.
	Source string `json:"source,omitempty"`
}

// NewCard returns a card in deckID with the initial scheduling state,
// due immediately.
func NewCard(deckID, front, back string, now time.Time) Card {
	ms := Millis(now)
	return Card{
		ID:           uuid.NewString(),
		DeckID:       deckID,
		Front:        front,
		Back:         back,
		DueAt:        ms,
		IntervalDays: InitialInterval,
		Ease:         InitialEase,
		Reps:         0,
		Lapses:       0,
		UpdatedAt:    ms,
	}
}

// UnmarshalJSON accepts fractional millisecond timestamps, which exports
// computed as now + intervalDays*86400000 can hold, and rounds them to the
// nearest millisecond.
func (c *Card) UnmarshalJSON(b []byte) error {
	type plain Card
	aux := struct {
		*plain
		DueAt     float64 `json:"dueAt"`
		UpdatedAt float64 `json:"updatedAt"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.DueAt = int64(math.Round(aux.DueAt))
	c.UpdatedAt = int64(math.Round(aux.UpdatedAt))
	return nil
}

// IsDue reports whether the card may be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return c.DueAt <= Millis(now)
}

// Deck groups cards by topic.
type Deck struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	CreatedAt int64  `json:"createdAt"`
}

// NewDeck returns a deck with a fresh id.
func NewDeck(name string, now time.Time) Deck {
	return Deck{ID: uuid.NewString(), Name: name, CreatedAt: Millis(now)}
}

// Session is one saved focus-timer run.
type Session struct {
	StartedAt      int64 `json:"startedAt"`
	SecondsFocused int   `json:"secondsFocused" validate:"gte=0"`
	BreaksTaken    int   `json:"breaksTaken" validate:"gte=0"`
}

// ReviewLog records a single grading of a card.
// Grade follows the scheduler's scale:
// 0: Again
// 1: Hard
// 2: Good
// 3: Easy
type ReviewLog struct {
	CardID       string
	DeckID       string
	Grade        int
	ReviewedAt   time.Time
	IntervalDays float64
	Ease         float64
}

// Millis converts t to milliseconds since the Unix epoch.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts milliseconds since the Unix epoch to a time.Time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
