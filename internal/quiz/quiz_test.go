package quiz

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/edusprint/internal/domain"
)

func deck(n int) []domain.Card {
	var cards []domain.Card
	for i := 0; i < n; i++ {
		cards = append(cards, domain.Card{
			ID:     string(rune('a' + i)),
			DeckID: "d",
			Front:  "front " + string(rune('a'+i)),
			Back:   "back " + string(rune('a'+i)),
		})
	}
	cards = append(cards, domain.Card{ID: "other", DeckID: "other", Front: "x", Back: "y"})
	return cards
}

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	tests := []struct {
		name  string
		cards int
		n     int
		want  int
	}{
		{"fewer than deck", 10, 5, 5},
		{"more than deck", 3, 5, 3},
		{"zero clamps to one", 4, 0, 1},
		{"over the cap", 60, 80, MaxQuestions},
		{"empty deck", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := Generate(deck(tt.cards), "d", tt.n, rng)
			assert.Len(t, qs, tt.want)

			seen := map[string]bool{}
			for _, q := range qs {
				assert.NotEqual(t, "x", q.Prompt, "card from another deck")
				assert.False(t, seen[q.Prompt], "duplicate question %q", q.Prompt)
				seen[q.Prompt] = true
				assert.Equal(t, "back"+q.Prompt[len("front"):], q.Answer)
			}
		})
	}
}

func TestGenerateDoesNotReorderInput(t *testing.T) {
	cards := deck(10)
	Generate(cards, "d", 10, rand.New(rand.NewPCG(3, 4)))
	assert.Equal(t, "a", cards[0].ID)
	assert.Equal(t, "j", cards[9].ID)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		guess  string
		want   bool
	}{
		{"exact", "Paris", "Paris", true},
		{"case and space", "Paris", "  paris ", true},
		{"empty guess", "Paris", "   ", false},
		{"short answer exact only", "Go", "go", true},
		{"guess substring long enough", "mitochondria", "mitochon", true},
		{"guess substring too short", "mitochondria", "mito", false},
		{"guess contains answer", "cat", "a cat", true},
		{"three char minimum", "abcd", "ab", false},
		{"unrelated", "Paris", "London", false},
		{"half length boundary", "energy currency", "currenc", true},
		{"just under half", "energy currency", "urrenc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.answer, tt.guess))
		})
	}
}

func TestQuizFlow(t *testing.T) {
	q := New([]Question{
		{Prompt: "capital of France", Answer: "Paris"},
		{Prompt: "2+2", Answer: "four"},
	})
	require.Equal(t, 2, q.Len())

	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "capital of France", cur.Prompt)
	assert.Equal(t, "Paris", q.Reveal())

	correct, done := q.Submit("paris")
	assert.True(t, correct)
	assert.False(t, done)
	assert.Equal(t, 1, q.Index())

	correct, done = q.Submit("five")
	assert.False(t, correct)
	assert.True(t, done)
	assert.Equal(t, 1, q.Score())

	_, ok = q.Current()
	assert.False(t, ok)
	_, done = q.Submit("anything")
	assert.True(t, done)
	assert.Equal(t, 1, q.Score())
}
