package study

import "errors"

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrCardNotFound = errors.New("card not found")
	ErrLastDeck     = errors.New("cannot delete the last deck")
	ErrEmptyName    = errors.New("deck name cannot be empty")
	ErrEmptyCard    = errors.New("card front and back cannot be empty")
)
