package storage

import (
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
)

var starterCards = []struct{ id, front, back string }{
	{"starter-1", "What is spaced repetition?", "A learning technique where reviews are scheduled at increasing intervals to improve long-term retention."},
	{"starter-2", "What does the Pomodoro Technique involve?", "Working in focused intervals (typically 25 minutes) separated by short breaks."},
	{"starter-3", "What is active recall?", "A study method where you actively test yourself on material rather than passively re-reading it."},
	{"starter-4", "What is the best way to write a flashcard?", "Keep it atomic: one fact per card, short question on the front, concise answer on the back."},
}

// Default returns the data set a first run starts from: one "Default" deck
// holding the starter cards, all due at now.
func Default(now time.Time) domain.DataSet {
	ms := domain.Millis(now)
	cards := make([]domain.Card, 0, len(starterCards))
	for _, s := range starterCards {
		cards = append(cards, domain.Card{
			ID:           s.id,
			DeckID:       "default",
			Front:        s.front,
			Back:         s.back,
			DueAt:        ms,
			IntervalDays: domain.InitialInterval,
			Ease:         domain.InitialEase,
			UpdatedAt:    ms,
		})
	}
	return domain.DataSet{
		Decks:        []domain.Deck{{ID: "default", Name: "Default", CreatedAt: ms}},
		Cards:        cards,
		ActiveDeckID: "default",
		Sessions:     []domain.Session{},
	}
}
