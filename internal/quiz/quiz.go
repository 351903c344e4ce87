// Package quiz builds short typed-answer quizzes from a deck and grades the
// answers with loose text matching.
package quiz

import (
	"math/rand/v2"
	"strings"

	"github.com/conorfennell/edusprint/internal/domain"
)

// Bounds on the number of questions in one quiz.
const (
	MinQuestions = 1
	MaxQuestions = 50
)

// Question is one prompt and its expected answer.
type Question struct {
	Prompt string
	Answer string
}

// Generate picks up to n random cards of deckID as questions. n is clamped
// to [MinQuestions, MaxQuestions] and to the deck size.
func Generate(cards []domain.Card, deckID string, n int, rng *rand.Rand) []Question {
	var pool []domain.Card
	for _, c := range cards {
		if c.DeckID == deckID {
			pool = append(pool, c)
		}
	}
	n = min(max(n, MinQuestions), MaxQuestions, len(pool))

	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{Prompt: pool[i].Front, Answer: pool[i].Back}
	}
	return qs
}

// Match reports whether guess is close enough to answer. Both are compared
// trimmed and lowercased. Besides an exact match, a guess of at least half
// the answer's length (and never under 3 characters) passes when either
// string contains the other.
func Match(answer, guess string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	g := strings.ToLower(strings.TrimSpace(guess))
	if g == "" {
		return false
	}
	if a == g {
		return true
	}
	minLen := max(3, len([]rune(a))/2)
	if len([]rune(g)) < minLen {
		return false
	}
	return strings.Contains(a, g) || strings.Contains(g, a)
}

// Quiz walks through a generated question list and keeps score.
type Quiz struct {
	questions []Question
	index     int
	score     int
}

// New starts a quiz over qs.
func New(qs []Question) *Quiz {
	return &Quiz{questions: qs}
}

// Len returns the number of questions.
func (q *Quiz) Len() int { return len(q.questions) }

// Index returns the zero-based position of the current question.
func (q *Quiz) Index() int { return q.index }

// Score returns the number of correct answers so far.
func (q *Quiz) Score() int { return q.score }

// Done reports whether every question has been answered.
func (q *Quiz) Done() bool { return q.index >= len(q.questions) }

// Current returns the question awaiting an answer.
func (q *Quiz) Current() (Question, bool) {
	if q.Done() {
		return Question{}, false
	}
	return q.questions[q.index], true
}

// Reveal returns the current question's answer without advancing.
func (q *Quiz) Reveal() string {
	cur, _ := q.Current()
	return cur.Answer
}

// Submit grades guess against the current question and advances.
func (q *Quiz) Submit(guess string) (correct, done bool) {
	cur, ok := q.Current()
	if !ok {
		return false, true
	}
	correct = Match(cur.Answer, guess)
	if correct {
		q.score++
	}
	q.index++
	return correct, q.Done()
}
