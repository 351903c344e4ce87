package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/edusprint/internal/study"
)

type harness struct {
	t   *testing.T
	dir string
	db  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return &harness{t: t, dir: dir, db: filepath.Join(dir, "test.db")}
}

// exec runs one command against the harness database with input as stdin.
func (h *harness) exec(input string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--db", h.db, "--log-level", "error"}, args...)
	err := run(context.Background(), args, strings.NewReader(input), &out, &errOut)
	return out.String(), err
}

func (h *harness) mustExec(input string, args ...string) string {
	h.t.Helper()
	out, err := h.exec(input, args...)
	require.NoError(h.t, err, "edusprint %v", args)
	return out
}

func TestDeckCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustExec("", "deck", "list")
	assert.Contains(t, out, "* default")
	assert.Contains(t, out, "Default")

	out = h.mustExec("", "deck", "add", "Biology")
	assert.Contains(t, out, "Created deck Biology")

	out = h.mustExec("", "deck", "list")
	assert.Contains(t, out, "  default")
	assert.NotContains(t, out, "* default")
	assert.Contains(t, out, "Biology")

	h.mustExec("", "deck", "use", "default")
	h.mustExec("", "deck", "rename", "default", "Basics")
	out = h.mustExec("", "deck", "list")
	assert.Contains(t, out, "* default")
	assert.Contains(t, out, "Basics")

	_, err := h.exec("", "deck", "use", "missing")
	assert.ErrorIs(t, err, study.ErrDeckNotFound)
}

func TestDeleteLastDeckFails(t *testing.T) {
	h := newHarness(t)
	_, err := h.exec("", "deck", "delete", "default")
	assert.ErrorIs(t, err, study.ErrLastDeck)
}

func TestCardCommandsAndDue(t *testing.T) {
	h := newHarness(t)

	out := h.mustExec("", "due")
	assert.Contains(t, out, "4 card(s) due")

	out = h.mustExec("", "card", "add", "What is 2+2?", "4")
	assert.Contains(t, out, "Added card")
	id := strings.TrimSpace(strings.TrimPrefix(out, "Added card"))

	out = h.mustExec("", "due")
	assert.Contains(t, out, "5 card(s) due")
	assert.Contains(t, out, "What is 2+2?")

	h.mustExec("", "card", "edit", id, "What is 3+3?", "6")
	out = h.mustExec("", "card", "list")
	assert.Contains(t, out, "What is 3+3?")
	assert.Contains(t, out, "5 card(s)")

	h.mustExec("", "card", "delete", id)
	out = h.mustExec("", "card", "list")
	assert.Contains(t, out, "4 card(s)")

	_, err := h.exec("", "card", "add", " ", "answer")
	assert.ErrorIs(t, err, study.ErrEmptyCard)
	_, err = h.exec("", "card", "delete", id)
	assert.ErrorIs(t, err, study.ErrCardNotFound)
}

func TestReview(t *testing.T) {
	h := newHarness(t)

	out := h.mustExec("\n9\n2\n\nq\n", "review")
	assert.Contains(t, out, "[1/4]")
	assert.Contains(t, out, "Enter 0-3")
	assert.Contains(t, out, "Good (1d)")
	assert.Contains(t, out, "Reviewed 1 card(s).")

	out = h.mustExec("", "due")
	assert.Contains(t, out, "3 card(s) due")
}

func TestReviewNothingDue(t *testing.T) {
	h := newHarness(t)
	h.mustExec("", "deck", "add", "Empty")

	out := h.mustExec("", "review")
	assert.Contains(t, out, "Nothing due.")
}

func TestQuiz(t *testing.T) {
	h := newHarness(t)

	out := h.mustExec("zzzz\n", "quiz", "--count", "1")
	assert.Contains(t, out, "Question 1/1")
	assert.Contains(t, out, "Not quite. Answer:")
	assert.Contains(t, out, "Score: 0/1")

	h.mustExec("", "deck", "add", "Empty")
	out = h.mustExec("", "quiz")
	assert.Contains(t, out, "No cards in this deck")

	_, err := h.exec("", "quiz", "--count", "51")
	assert.Error(t, err)
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	h.mustExec("", "deck", "add", "Biology")

	export := filepath.Join(h.dir, "export.json")
	out := h.mustExec("", "export", "--out", export)
	assert.Contains(t, out, "Exported to")

	out = h.mustExec("", "export")
	assert.Contains(t, out, `"activeDeckId"`)

	other := newHarness(t)
	out = other.mustExec("", "import", export)
	assert.Contains(t, out, "Imported 2 deck(s), 4 card(s), 0 session(s)")
	assert.Contains(t, other.mustExec("", "deck", "list"), "Biology")

	bad := filepath.Join(other.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"decks": 1}`), 0o644))
	out, err := other.exec("", "import", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "Import failed")
	assert.Contains(t, other.mustExec("", "deck", "list"), "Biology")
}

func TestSourceAndSync(t *testing.T) {
	h := newHarness(t)

	notes := filepath.Join(h.dir, "notes")
	require.NoError(t, os.MkdirAll(notes, 0o755))
	md := "Q: What does SRS stand for?\nA: Spaced repetition system\n"
	require.NoError(t, os.WriteFile(filepath.Join(notes, "srs.md"), []byte(md), 0o644))

	out := h.mustExec("", "source", "add", "notes")
	assert.Contains(t, out, "Added local source 1")

	_, err := h.exec("", "source", "add", "notes")
	assert.ErrorContains(t, err, "already exists")
	_, err = h.exec("", "source", "add", "missing")
	assert.Error(t, err)

	out = h.mustExec("", "source", "list")
	assert.Contains(t, out, "1 source(s)")
	assert.Contains(t, out, "never")

	h.mustExec("", "sync")
	out = h.mustExec("", "card", "list")
	assert.Contains(t, out, "What does SRS stand for?")
	assert.Contains(t, out, "5 card(s)")

	h.mustExec("", "sync")
	assert.Contains(t, h.mustExec("", "card", "list"), "5 card(s)")

	h.mustExec("", "source", "remove", "1")
	assert.Contains(t, h.mustExec("", "source", "list"), "0 source(s)")
	_, err = h.exec("", "source", "remove", "x")
	assert.Error(t, err)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n b\t c", 10))
	assert.Equal(t, "abcdefg...", oneLine("abcdefghijklmnop", 10))
}
