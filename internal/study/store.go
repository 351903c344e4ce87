package study

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/srs"
)

// Persister saves a complete data set.
type Persister interface {
	Save(ds domain.DataSet) error
}

// ReviewRecorder keeps the review history.
type ReviewRecorder interface {
	AppendReviewLog(log domain.ReviewLog) error
}

// Store owns the current data set. Updates go through Apply, which runs a
// transition, persists the result and only then replaces the held value.
type Store struct {
	mu       sync.Mutex
	data     domain.DataSet
	persist  Persister
	recorder ReviewRecorder
	clock    func() time.Time
}

// NewStore wraps an already loaded data set. recorder may be nil.
func NewStore(ds domain.DataSet, persist Persister, recorder ReviewRecorder, clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		data:     ds.Clone(),
		persist:  persist,
		recorder: recorder,
		clock:    clock,
	}
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

// Snapshot returns a copy of the current data set.
func (s *Store) Snapshot() domain.DataSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Apply runs fn against the current data set and commits its result.
// If fn or the save fails the held data set is unchanged.
func (s *Store) Apply(fn func(ds domain.DataSet, now time.Time) (domain.DataSet, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.data.Clone(), s.clock())
	if err != nil {
		return err
	}
	if s.persist != nil {
		if err := s.persist.Save(next); err != nil {
			return fmt.Errorf("failed to save data set: %w", err)
		}
	}
	s.data = next
	return nil
}

// Replace swaps in a whole data set, as an import does.
func (s *Store) Replace(ds domain.DataSet) error {
	return s.Apply(func(domain.DataSet, time.Time) (domain.DataSet, error) {
		return ds.Clone(), nil
	})
}

// Grade grades one card and records the review. A failure to record the
// review is logged; the grading itself stays committed.
func (s *Store) Grade(cardID string, g srs.Grade) (domain.Card, error) {
	var (
		log  domain.ReviewLog
		card domain.Card
	)
	err := s.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
		next, l, err := GradeCard(ds, cardID, g, now)
		if err != nil {
			return ds, err
		}
		log = l
		card = next.Cards[next.FindCard(cardID)]
		return next, nil
	})
	if err != nil {
		return domain.Card{}, err
	}

	if s.recorder != nil {
		if err := s.recorder.AppendReviewLog(log); err != nil {
			slog.Warn("Failed to record review", "card", cardID, "error", err)
		}
	}
	slog.Debug("Card graded", "card", cardID, "grade", g.String(), "interval_days", card.IntervalDays, "ease", card.Ease)
	return card, nil
}

// Due returns the due cards of the active deck (or deckID if not empty).
func (s *Store) Due(deckID string) []domain.Card {
	ds := s.Snapshot()
	if deckID == "" {
		deckID = ActiveDeckID(ds)
	}
	return srs.DueCards(ds.Cards, deckID, s.clock())
}
