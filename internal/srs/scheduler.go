package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
)

const (
	// MinEase is the floor every grading keeps the ease factor at.
	MinEase = 1.3
	// EaseStep is the ease change per grade step away from Hard.
	EaseStep = 0.15
	// LapseInterval is the interval in days after an Again.
	LapseInterval = 0.5
	// MinSuccessInterval is the interval floor in days after Hard, Good or Easy.
	MinSuccessInterval = 1.0

	msPerDay = 24 * 60 * 60 * 1000
)

// GradeCard computes the card's next scheduling state for grade g at now.
// The input card is not modified; every other field is carried through.
//
// The new interval scales the previous one by the updated ease, so a card
// whose interval is still 0 always lands on the 1 day floor on its first
// successful review.
func GradeCard(card domain.Card, g Grade, now time.Time) (domain.Card, error) {
	if !g.IsValid() {
		return card, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	if err := checkCard(card); err != nil {
		return card, err
	}

	ease := math.Max(MinEase, card.Ease+float64(g-Hard)*EaseStep)

	interval := LapseInterval
	if g != Again {
		interval = math.Max(MinSuccessInterval, card.IntervalDays*ease)
	}

	nowMs := domain.Millis(now)
	next := card
	next.Ease = ease
	next.IntervalDays = interval
	next.DueAt = nowMs + int64(math.Round(interval*msPerDay))
	next.Reps = card.Reps + 1
	if g == Again {
		next.Lapses = card.Lapses + 1
	}
	next.UpdatedAt = nowMs
	return next, nil
}

// Preview returns the state card would move to under each grade.
func Preview(card domain.Card, now time.Time) (map[Grade]domain.Card, error) {
	out := make(map[Grade]domain.Card, len(Grades))
	for _, g := range Grades {
		next, err := GradeCard(card, g, now)
		if err != nil {
			return nil, err
		}
		out[g] = next
	}
	return out, nil
}

// DueCards returns the cards of deckID that are due at now, in their
// original order.
func DueCards(cards []domain.Card, deckID string, now time.Time) []domain.Card {
	nowMs := domain.Millis(now)
	var due []domain.Card
	for _, c := range cards {
		if c.DeckID == deckID && c.DueAt <= nowMs {
			due = append(due, c)
		}
	}
	return due
}

func checkCard(c domain.Card) error {
	switch {
	case c.Ease < MinEase || math.IsNaN(c.Ease):
		return fmt.Errorf("%w: ease %.2f below %.2f", ErrInvalidCard, c.Ease, MinEase)
	case c.IntervalDays < 0 || math.IsNaN(c.IntervalDays):
		return fmt.Errorf("%w: interval %v", ErrInvalidCard, c.IntervalDays)
	case c.Reps < 0 || c.Lapses < 0:
		return fmt.Errorf("%w: reps %d lapses %d", ErrInvalidCard, c.Reps, c.Lapses)
	}
	return nil
}
