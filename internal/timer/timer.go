// Package timer implements the focus/break countdown.
package timer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/edusprint/internal/domain"
)

// Mode is the phase the timer is counting down.
type Mode int

const (
	Focus Mode = iota
	Break
)

func (m Mode) String() string {
	if m == Break {
		return "Break"
	}
	return "Focus"
}

// Config holds the phase lengths in minutes.
type Config struct {
	FocusMinutes int `koanf:"focus_minutes" validate:"min=5,max=90"`
	BreakMinutes int `koanf:"break_minutes" validate:"min=1,max=30"`
}

// DefaultConfig is a 25/5 split.
func DefaultConfig() Config {
	return Config{FocusMinutes: 25, BreakMinutes: 5}
}

var validate = validator.New()

// Validate checks the phase lengths are in range.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Timer alternates focus and break phases while running, counting the
// seconds spent in focus and the number of breaks started.
type Timer struct {
	cfg            Config
	mode           Mode
	running        bool
	secondsLeft    int
	focusedSeconds int
	breaksTaken    int
	startedAt      time.Time
}

// New returns a paused timer at the start of a focus phase.
func New(cfg Config) (*Timer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timer config: %w", err)
	}
	t := &Timer{cfg: cfg, mode: Focus}
	t.resetPhase()
	return t, nil
}

func (t *Timer) Mode() Mode          { return t.mode }
func (t *Timer) Running() bool       { return t.running }
func (t *Timer) SecondsLeft() int    { return t.secondsLeft }
func (t *Timer) FocusedSeconds() int { return t.focusedSeconds }
func (t *Timer) BreaksTaken() int    { return t.breaksTaken }

// Start resumes counting. The first start of a session marks its start time.
func (t *Timer) Start(now time.Time) {
	if t.startedAt.IsZero() {
		t.startedAt = now
	}
	t.running = true
}

// Pause stops counting without losing progress.
func (t *Timer) Pause() { t.running = false }

// Toggle starts a paused timer or pauses a running one.
func (t *Timer) Toggle(now time.Time) {
	if t.running {
		t.Pause()
		return
	}
	t.Start(now)
}

// Switch flips between focus and break. Ignored while running.
func (t *Timer) Switch() bool {
	if t.running {
		return false
	}
	t.mode = 1 - t.mode
	t.resetPhase()
	return true
}

// Reset restarts the current phase. Ignored while running.
func (t *Timer) Reset() bool {
	if t.running {
		return false
	}
	t.resetPhase()
	return true
}

// Tick advances the timer by one second. When a phase runs out the timer
// moves to the other phase and keeps running.
func (t *Timer) Tick() {
	if !t.running {
		return
	}
	if t.secondsLeft > 0 {
		t.secondsLeft--
		if t.mode == Focus {
			t.focusedSeconds++
		}
	}
	if t.secondsLeft > 0 {
		return
	}
	if t.mode == Focus {
		t.mode = Break
		t.breaksTaken++
	} else {
		t.mode = Focus
	}
	t.resetPhase()
}

// Stop pauses the timer and returns the session accumulated since the last
// Stop. Counters start over afterwards.
func (t *Timer) Stop(now time.Time) domain.Session {
	t.running = false
	started := t.startedAt
	if started.IsZero() {
		started = now
	}
	s := domain.Session{
		StartedAt:      domain.Millis(started),
		SecondsFocused: t.focusedSeconds,
		BreaksTaken:    t.breaksTaken,
	}
	t.focusedSeconds = 0
	t.breaksTaken = 0
	t.startedAt = time.Time{}
	return s
}

// Hint is the advice shown for the current phase.
func (t *Timer) Hint() string {
	if t.mode == Focus {
		return "Focus time. Put phone away. One task only."
	}
	return "Break time. Stand up, water, eyes off screen."
}

// Run ticks the timer on every value from ticks until ctx is done, calling
// onTick after each one. The timer must already be started.
func (t *Timer) Run(ctx context.Context, ticks <-chan time.Time, onTick func(*Timer)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			t.Tick()
			if onTick != nil {
				onTick(t)
			}
		}
	}
}

// Format renders seconds as MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func (t *Timer) resetPhase() {
	minutes := t.cfg.FocusMinutes
	if t.mode == Break {
		minutes = t.cfg.BreakMinutes
	}
	t.secondsLeft = minutes * 60
}
