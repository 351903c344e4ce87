package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/config"
	"github.com/conorfennell/edusprint/internal/quiz"
)

func (a *app) quizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz yourself on random cards of a deck",
		Long:  "Asks the fronts of random cards and checks typed answers loosely. Quizzes do not change review schedules.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			deckID, err := deckOrActive(cmd, store)
			if err != nil {
				return err
			}
			qs := quiz.Generate(store.Snapshot().Cards, deckID, a.cfg.Quiz.Count, a.rng)
			if len(qs) == 0 {
				fmt.Fprintln(a.out, "No cards in this deck to quiz on.")
				return nil
			}

			q := quiz.New(qs)
			sc := bufio.NewScanner(a.in)
			for !q.Done() {
				cur, _ := q.Current()
				fmt.Fprintf(a.out, "\nQuestion %d/%d: %s\n> ", q.Index()+1, q.Len(), cur.Prompt)
				if !sc.Scan() {
					break
				}
				answer := q.Reveal()
				if correct, _ := q.Submit(sc.Text()); correct {
					fmt.Fprintln(a.out, "Correct!")
				} else {
					fmt.Fprintf(a.out, "Not quite. Answer: %s\n", answer)
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintf(a.out, "\nScore: %d/%d\n", q.Score(), q.Len())
			return nil
		},
	}
	cmd.Flags().String("deck", "", "Deck ID (default: active deck)")
	cmd.Flags().Int("count", config.Default().Quiz.Count, fmt.Sprintf("Number of questions (%d-%d)", quiz.MinQuestions, quiz.MaxQuestions))
	return cmd
}
