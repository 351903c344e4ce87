package sync

import (
	"fmt"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/knol"
	"github.com/conorfennell/edusprint/internal/parser"
	"github.com/conorfennell/edusprint/internal/study"
)

// Result counts what a reconciliation did to a deck.
type Result struct {
	Added   int
	Kept    int
	Removed int
}

// Reconcile makes the cards that source contributed to deckID match
// entries. New entries become fresh cards, entries already present keep
// their scheduling state, and cards of this source whose entry is gone are
// removed. Cards authored by hand or by other sources are not touched.
func Reconcile(ds domain.DataSet, deckID, source string, entries []parser.Entry, now time.Time) (domain.DataSet, Result, error) {
	var res Result
	if ds.FindDeck(deckID) < 0 {
		return ds, res, fmt.Errorf("%w: %s", study.ErrDeckNotFound, deckID)
	}

	wanted := make(map[string]bool, len(entries))
	var added []domain.Card
	for _, e := range entries {
		id := knol.CardID(deckID, source, e)
		if wanted[id] {
			continue
		}
		wanted[id] = true
		if ds.FindCard(id) >= 0 {
			res.Kept++
			continue
		}
		added = append(added, entryCard(id, deckID, source, e, now))
	}
	res.Added = len(added)

	out := ds.Clone()
	out.Cards = make([]domain.Card, 0, len(added)+len(ds.Cards))
	out.Cards = append(out.Cards, added...)
	for _, c := range ds.Cards {
		if c.Source == source && c.DeckID == deckID && !wanted[c.ID] {
			res.Removed++
			continue
		}
		out.Cards = append(out.Cards, c)
	}
	return out, res, nil
}

func entryCard(id, deckID, source string, e parser.Entry, now time.Time) domain.Card {
	back := e.Answer
	if e.Context != "" {
		if back != "" {
			back += "\n\n"
		}
		back += e.Context
	}
	c := domain.NewCard(deckID, e.Question, back, now)
	c.ID = id
	c.Source = source
	return c
}
