package srs

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is the user's self-assessed recall quality for a review.
type Grade int

const (
	Again Grade = iota // failed to recall
	Hard               // recalled with difficulty
	Good               // recalled correctly
	Easy               // recalled effortlessly
)

// Grades lists every valid grade in increasing order of recall quality.
var Grades = [...]Grade{Again, Hard, Good, Easy}

var gradeNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

// IsValid reports whether g is one of Again, Hard, Good or Easy.
func (g Grade) IsValid() bool {
	return g >= Again && g <= Easy
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// ParseGrade accepts a digit 0-3, a grade name or its initial letter,
// case-insensitively.
func ParseGrade(s string) (Grade, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		g := Grade(n)
		if !g.IsValid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidGrade, n)
		}
		return g, nil
	}
	for _, g := range Grades {
		name := strings.ToLower(gradeNames[g])
		if s == name || s == name[:1] {
			return g, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}
