package domain

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

// DataSet is everything the toolkit persists: decks, cards, focus sessions
// and the active deck pointer.
type DataSet struct {
	Decks        []Deck    `json:"decks" validate:"dive"`
	Cards        []Card    `json:"cards" validate:"dive"`
	ActiveDeckID string    `json:"activeDeckId,omitempty"`
	Sessions     []Session `json:"sessions" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every deck, card and session against its field rules.
func (ds DataSet) Validate() error {
	return validate.Struct(ds)
}

// Validate checks the card's fields, including the scheduling invariants.
func (c Card) Validate() error {
	return validate.Struct(c)
}

// Clone returns a copy of ds that shares no backing arrays with it.
// Nil collections become empty ones so the JSON form always has arrays.
func (ds DataSet) Clone() DataSet {
	out := DataSet{
		Decks:        slices.Clone(ds.Decks),
		Cards:        slices.Clone(ds.Cards),
		ActiveDeckID: ds.ActiveDeckID,
		Sessions:     slices.Clone(ds.Sessions),
	}
	if out.Decks == nil {
		out.Decks = []Deck{}
	}
	if out.Cards == nil {
		out.Cards = []Card{}
	}
	if out.Sessions == nil {
		out.Sessions = []Session{}
	}
	return out
}

// FindDeck returns the index of the deck with the given id, or -1.
func (ds DataSet) FindDeck(id string) int {
	return slices.IndexFunc(ds.Decks, func(d Deck) bool { return d.ID == id })
}

// FindCard returns the index of the card with the given id, or -1.
func (ds DataSet) FindCard(id string) int {
	return slices.IndexFunc(ds.Cards, func(c Card) bool { return c.ID == id })
}
