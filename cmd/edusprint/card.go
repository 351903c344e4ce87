package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/study"
)

func (a *app) cardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage flashcards",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the cards of a deck",
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
			n := 0
			for _, c := range store.Snapshot().Cards {
				if c.DeckID != deckID {
					continue
				}
				due := domain.FromMillis(c.DueAt).Local().Format("2006-01-02 15:04")
				fmt.Fprintf(a.out, "%-38s  %-40s  %s  %5.1fd  %.2f\n", c.ID, oneLine(c.Front, 40), due, c.IntervalDays, c.Ease)
				n++
			}
			fmt.Fprintf(a.out, "%d card(s)\n", n)
			return nil
		},
	}
	list.Flags().String("deck", "", "Deck ID (default: active deck)")

	add := &cobra.Command{
		Use:   "add <front> <back>",
		Short: "Add a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			deckID, err := deckOrActive(cmd, store)
			if err != nil {
				return err
			}
			var card domain.Card
			err = store.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
				next, c, err := study.AddCard(ds, deckID, args[0], args[1], now)
				card = c
				return next, err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added card %s\n", card.ID)
			return nil
		},
	}
	add.Flags().String("deck", "", "Deck ID (default: active deck)")

	edit := &cobra.Command{
		Use:   "edit <id> <front> <back>",
		Short: "Change a card's text, keeping its schedule",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			return store.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
				return study.UpdateCard(ds, args[0], args[1], args[2], now)
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			return store.Apply(func(ds domain.DataSet, _ time.Time) (domain.DataSet, error) {
				return study.DeleteCard(ds, args[0])
			})
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}
