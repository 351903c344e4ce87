// Package knol derives stable identities for cards written in markdown, so
// that re-reading the same file maps each entry onto the same card.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/edusprint/internal/parser"
)

// CardIDPrefix marks card ids derived from markdown content.
const CardIDPrefix = "md-"

// Normalize concatenates the entry's content after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings for each field
// before joining them.
func Normalize(e parser.Entry) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	// Joined with newlines so "question" and "answer" never run together.
	return strings.Join([]string{
		normalizePart(e.Question),
		normalizePart(e.Answer),
		normalizePart(e.Context),
	}, "\n")
}

// Hash returns the SHA-256 of the normalized entry as a hex string.
func Hash(e parser.Entry) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(Normalize(e))))
}

// CardID returns the id of the card an entry becomes when source feeds
// deckID: the prefix plus the first 16 hex digits of a hash over the deck,
// the source and the normalized content. The same entry read from another
// source or into another deck gets its own card.
func CardID(deckID, source string, e parser.Entry) string {
	scoped := strings.Join([]string{deckID, source, Normalize(e)}, "\x00")
	return fmt.Sprintf("%s%x", CardIDPrefix, sha256.Sum256([]byte(scoped)))[:len(CardIDPrefix)+16]
}
