package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedQ     string
		expectedA     string
		expectedC     string
	}{
		{
			name:          "Simple Q&A",
			input:         "Q: What is the capital of France?\nA: Paris",
			expectedCards: 1,
			expectedQ:     "What is the capital of France?",
			expectedA:     "Paris",
			expectedC:     "",
		},
		{
			name:          "Simple Q, A, and C",
			input:         "Q: What is 1+1?\nA: 2\nC: Basic arithmetic",
			expectedCards: 1,
			expectedQ:     "What is 1+1?",
			expectedA:     "2",
			expectedC:     "Basic arithmetic",
		},
		{
			name: "Multiline Answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expectedCards: 1,
			expectedQ:     "What are the primary colors?",
			expectedA:     "Red\nBlue\nYellow",
			expectedC:     "",
		},
		{
			name: "Two Cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name: "Separator ends a card",
			input: `Q: One
A: 1
---
Stray text outside a card
Q: Two
A: 2`,
			expectedCards: 2,
		},
		{
			name:          "Answer without question is dropped",
			input:         "A: orphan answer\nC: orphan context",
			expectedCards: 0,
		},
		{
			name: "Card with all fields and multiline",
			input: `
Q: What is Go?
A: A statically typed, compiled programming language.
It was designed at Google.
C: Programming Languages
`,
			expectedCards: 1,
			expectedQ:     "What is Go?",
			expectedA:     "A statically typed, compiled programming language.\nIt was designed at Google.",
			expectedC:     "Programming Languages",
		},
		{
			name:          "No cards, just text",
			input:         "This is a file with no questions.",
			expectedCards: 0,
		},
		{
			name:          "Prefixes with no space",
			input:         "Q:Question\nA:Answer",
			expectedCards: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader(tc.input)
			entries, err := Parse(r)
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(entries) != tc.expectedCards {
				t.Fatalf("Expected %d cards, but got %d", tc.expectedCards, len(entries))
			}

			if tc.expectedCards == 1 {
				card := entries[0]
				if card.Question != tc.expectedQ {
					t.Errorf("Expected Question to be '%s', but got '%s'", tc.expectedQ, card.Question)
				}
				if card.Answer != tc.expectedA {
					t.Errorf("Expected Answer to be '%s', but got '%s'", tc.expectedA, card.Answer)
				}
				if card.Context != tc.expectedC {
					t.Errorf("Expected Context to be '%s', but got '%s'", tc.expectedC, card.Context)
				}
			}
		})
	}
}

func TestParseTrimsBlankLinesBetweenCards(t *testing.T) {
	input := "Q: First question\nA: First answer\n\n\nQ: Second question\nA: Second answer\n"
	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, but got %d", len(entries))
	}
	if entries[0].Answer != "First answer" {
		t.Errorf("Expected trailing blank lines to be trimmed, got %q", entries[0].Answer)
	}
	if entries[1].Question != "Second question" {
		t.Errorf("Expected second question, got %q", entries[1].Question)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.md")
	if err := os.WriteFile(path, []byte("# Notes\n\nQ: Capital of Italy?\nA: Rome\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Answer != "Rome" {
		t.Errorf("Unexpected entries %+v", entries)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
