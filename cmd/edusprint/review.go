package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/srs"
	"github.com/conorfennell/edusprint/internal/web"
)

func (a *app) dueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List cards due for review",
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
			due := store.Due(deckID)
			for _, c := range due {
				fmt.Fprintf(a.out, "%-38s  %s\n", c.ID, oneLine(c.Front, 60))
			}
			fmt.Fprintf(a.out, "%d card(s) due\n", len(due))
			return nil
		},
	}
	cmd.Flags().String("deck", "", "Deck ID (default: active deck)")
	return cmd
}

func (a *app) reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review due cards interactively",
		Long:  "Shows each due card, reveals the answer on Enter and asks for a grade: 0/again, 1/hard, 2/good or 3/easy. Enter q to stop.",
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
			due := store.Due(deckID)
			if len(due) == 0 {
				fmt.Fprintln(a.out, "Nothing due. Well done.")
				return nil
			}

			sc := bufio.NewScanner(a.in)
			reviewed := 0
		cards:
			for i, c := range due {
				fmt.Fprintf(a.out, "\n[%d/%d] %s\n", i+1, len(due), c.Front)
				fmt.Fprint(a.out, "Press Enter to show the answer (q to quit) ")
				if !sc.Scan() || isQuit(sc.Text()) {
					break
				}
				fmt.Fprintf(a.out, "\n%s\n\n", c.Back)

				preview, err := srs.Preview(c, store.Now())
				if err != nil {
					return err
				}
				for _, g := range srs.Grades {
					fmt.Fprintf(a.out, "  %d %s (%s)", int(g), g, web.FormatInterval(preview[g].IntervalDays))
				}
				fmt.Fprintln(a.out)

				for {
					fmt.Fprint(a.out, "Grade: ")
					if !sc.Scan() || isQuit(sc.Text()) {
						break cards
					}
					g, err := srs.ParseGrade(sc.Text())
					if err != nil {
						fmt.Fprintln(a.out, "Enter 0-3 or again, hard, good, easy.")
						continue
					}
					if _, err := store.Grade(c.ID, g); err != nil {
						return err
					}
					reviewed++
					break
				}
			}
			if err := sc.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintf(a.out, "\nReviewed %d card(s).\n", reviewed)
			return nil
		},
	}
	cmd.Flags().String("deck", "", "Deck ID (default: active deck)")
	return cmd
}

func isQuit(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "q" || s == "quit"
}

// oneLine flattens s and cuts it to at most n runes.
func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
