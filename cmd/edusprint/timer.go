package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/config"
	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/study"
	"github.com/conorfennell/edusprint/internal/timer"
)

func (a *app) timerCmd() *cobra.Command {
	def := config.Default().Timer
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run a focus/break timer and log the session",
		Long:  "Alternates focus and break phases until interrupted, then records the focused time and breaks taken.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			t, err := timer.New(a.cfg.Timer)
			if err != nil {
				return err
			}

			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			fmt.Fprintf(a.out, "Focus %d min, break %d min. Press Ctrl-C to stop.\n%s\n",
				a.cfg.Timer.FocusMinutes, a.cfg.Timer.BreakMinutes, t.Hint())
			t.Start(a.clock())
			mode := t.Mode()
			err = t.Run(cmd.Context(), ticker.C, func(t *timer.Timer) {
				if t.Mode() != mode {
					mode = t.Mode()
					fmt.Fprintf(a.out, "\n%s\n", t.Hint())
				}
				fmt.Fprintf(a.out, "\r%-5s %s", t.Mode(), timer.Format(t.SecondsLeft()))
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return a.logSession(store, t.Stop(a.clock()))
		},
	}
	cmd.Flags().Int("focus", def.FocusMinutes, "Focus minutes (5-90)")
	cmd.Flags().Int("break", def.BreakMinutes, "Break minutes (1-30)")
	return cmd
}

// logSession stores a finished session unless nothing was focused.
func (a *app) logSession(store *study.Store, s domain.Session) error {
	if s.SecondsFocused == 0 {
		fmt.Fprintln(a.out, "\nNo focused time to log.")
		return nil
	}
	err := store.Apply(func(ds domain.DataSet, _ time.Time) (domain.DataSet, error) {
		return study.AddSession(ds, s), nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nLogged %s focused, %d break(s).\n", timer.Format(s.SecondsFocused), s.BreaksTaken)
	return nil
}
