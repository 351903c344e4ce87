// Package parser reads flashcards written in markdown files as Q:/A:/C:
// blocks. A block runs until the next prefix, a "---" line or the end of
// the file; a new Q: always starts a new card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Entry is one card as written in a markdown file.
type Entry struct {
	Question string
	Answer   string
	Context  string
}

type field int

const (
	none field = iota
	question
	answer
	context
)

var prefixes = []struct {
	prefix string
	field  field
}{
	{"Q:", question},
	{"A:", answer},
	{"C:", context},
}

// ParseFile reads a file from the given path and extracts all entries.
func ParseFile(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all entries. Entries without a
// question are dropped.
func Parse(r io.Reader) ([]Entry, error) {
	p := &state{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	p.finishEntry()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.entries, nil
}

type state struct {
	entries []Entry
	current Entry
	field   field
	block   []string
}

func (p *state) line(line string) {
	if line == "---" {
		p.finishEntry()
		return
	}
	for _, pf := range prefixes {
		if !strings.HasPrefix(line, pf.prefix) {
			continue
		}
		p.flushBlock()
		if pf.field == question && p.field != none {
			p.finishEntry()
		}
		p.field = pf.field
		p.block = append(p.block, strings.TrimPrefix(line[len(pf.prefix):], " "))
		return
	}
	if p.field != none {
		p.block = append(p.block, line)
	}
}

func (p *state) flushBlock() {
	if len(p.block) == 0 {
		return
	}
	content := strings.TrimSpace(strings.Join(p.block, "\n"))
	switch p.field {
	case question:
		p.current.Question = content
	case answer:
		p.current.Answer = content
	case context:
		p.current.Context = content
	}
	p.block = nil
}

func (p *state) finishEntry() {
	p.flushBlock()
	if p.current.Question != "" {
		p.entries = append(p.entries, p.current)
	}
	p.current = Entry{}
	p.field = none
}
