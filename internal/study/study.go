// Package study holds the transitions applied to the data set. Every
// transition takes a DataSet value and returns a new one; the input is left
// untouched so callers can swap the whole value in one step.
package study

import (
	"fmt"
	"strings"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/srs"
)

// DefaultDeckID is the deck every bootstrapped data set starts with.
const DefaultDeckID = "default"

// MaxSessions is how many focus sessions are kept, newest first.
const MaxSessions = 200

// ActiveDeckID resolves the deck the user is working in.
func ActiveDeckID(ds domain.DataSet) string {
	if ds.ActiveDeckID != "" {
		return ds.ActiveDeckID
	}
	if len(ds.Decks) > 0 {
		return ds.Decks[0].ID
	}
	return DefaultDeckID
}

// AddDeck prepends a new deck and makes it the active one.
func AddDeck(ds domain.DataSet, name string, now time.Time) (domain.DataSet, domain.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ds, domain.Deck{}, ErrEmptyName
	}
	d := domain.NewDeck(name, now)
	out := ds.Clone()
	out.Decks = append([]domain.Deck{d}, out.Decks...)
	out.ActiveDeckID = d.ID
	return out, d, nil
}

// RenameDeck changes a deck's name. A blank name keeps the current one.
func RenameDeck(ds domain.DataSet, id, name string) (domain.DataSet, error) {
	i := ds.FindDeck(id)
	if i < 0 {
		return ds, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	out := ds.Clone()
	if name = strings.TrimSpace(name); name != "" {
		out.Decks[i].Name = name
	}
	return out, nil
}

// DeleteDeck removes a deck and all of its cards. The last remaining deck
// cannot be deleted.
func DeleteDeck(ds domain.DataSet, id string) (domain.DataSet, error) {
	if ds.FindDeck(id) < 0 {
		return ds, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	if len(ds.Decks) <= 1 {
		return ds, ErrLastDeck
	}

	out := ds.Clone()
	out.Decks = out.Decks[:0]
	for _, d := range ds.Decks {
		if d.ID != id {
			out.Decks = append(out.Decks, d)
		}
	}
	out.Cards = out.Cards[:0]
	for _, c := range ds.Cards {
		if c.DeckID != id {
			out.Cards = append(out.Cards, c)
		}
	}
	if ds.ActiveDeckID == id {
		out.ActiveDeckID = out.Decks[0].ID
	}
	return out, nil
}

// SetActiveDeck points the data set at an existing deck.
func SetActiveDeck(ds domain.DataSet, id string) (domain.DataSet, error) {
	if ds.FindDeck(id) < 0 {
		return ds, fmt.Errorf("%w: %s", ErrDeckNotFound, id)
	}
	out := ds.Clone()
	out.ActiveDeckID = id
	return out, nil
}

// AddCard authors a new card at the front of the collection.
func AddCard(ds domain.DataSet, deckID, front, back string, now time.Time) (domain.DataSet, domain.Card, error) {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return ds, domain.Card{}, ErrEmptyCard
	}
	if ds.FindDeck(deckID) < 0 {
		return ds, domain.Card{}, fmt.Errorf("%w: %s", ErrDeckNotFound, deckID)
	}
	c := domain.NewCard(deckID, front, back, now)
	out := ds.Clone()
	out.Cards = append([]domain.Card{c}, out.Cards...)
	return out, c, nil
}

// UpdateCard edits a card's content. Scheduling fields are left alone.
func UpdateCard(ds domain.DataSet, id, front, back string, now time.Time) (domain.DataSet, error) {
	i := ds.FindCard(id)
	if i < 0 {
		return ds, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return ds, ErrEmptyCard
	}
	out := ds.Clone()
	out.Cards[i].Front = front
	out.Cards[i].Back = back
	out.Cards[i].UpdatedAt = domain.Millis(now)
	return out, nil
}

// DeleteCard removes a card.
func DeleteCard(ds domain.DataSet, id string) (domain.DataSet, error) {
	i := ds.FindCard(id)
	if i < 0 {
		return ds, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	out := ds.Clone()
	out.Cards = append(out.Cards[:i], out.Cards[i+1:]...)
	return out, nil
}

// GradeCard runs the scheduler on one card and swaps the result into the
// same position.
func GradeCard(ds domain.DataSet, id string, g srs.Grade, now time.Time) (domain.DataSet, domain.ReviewLog, error) {
	i := ds.FindCard(id)
	if i < 0 {
		return ds, domain.ReviewLog{}, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	next, err := srs.GradeCard(ds.Cards[i], g, now)
	if err != nil {
		return ds, domain.ReviewLog{}, fmt.Errorf("failed to grade card %s: %w", id, err)
	}
	out := ds.Clone()
	out.Cards[i] = next
	log := domain.ReviewLog{
		CardID:       next.ID,
		DeckID:       next.DeckID,
		Grade:        int(g),
		ReviewedAt:   now,
		IntervalDays: next.IntervalDays,
		Ease:         next.Ease,
	}
	return out, log, nil
}

// AddSession records a finished focus session, keeping the newest MaxSessions.
func AddSession(ds domain.DataSet, s domain.Session) domain.DataSet {
	out := ds.Clone()
	out.Sessions = append([]domain.Session{s}, out.Sessions...)
	if len(out.Sessions) > MaxSessions {
		out.Sessions = out.Sessions[:MaxSessions]
	}
	return out
}

// DeckStat summarizes a deck for list views.
type DeckStat struct {
	Deck   domain.Deck
	Cards  int
	Due    int
	Active bool
}

// DeckStats returns one entry per deck, in deck order.
func DeckStats(ds domain.DataSet, now time.Time) []DeckStat {
	active := ActiveDeckID(ds)
	nowMs := domain.Millis(now)
	stats := make([]DeckStat, len(ds.Decks))
	index := make(map[string]int, len(ds.Decks))
	for i, d := range ds.Decks {
		stats[i] = DeckStat{Deck: d, Active: d.ID == active}
		index[d.ID] = i
	}
	for _, c := range ds.Cards {
		i, ok := index[c.DeckID]
		if !ok {
			continue
		}
		stats[i].Cards++
		if c.DueAt <= nowMs {
			stats[i].Due++
		}
	}
	return stats
}
