package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/study"
)

func (a *app) deckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Manage decks",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List decks with card and due counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "  %-38s  %-24s  %5s  %5s\n", "ID", "Name", "Cards", "Due")
			for _, st := range study.DeckStats(store.Snapshot(), store.Now()) {
				marker := " "
				if st.Active {
					marker = "*"
				}
				fmt.Fprintf(a.out, "%s %-38s  %-24s  %5d  %5d\n", marker, st.Deck.ID, oneLine(st.Deck.Name, 24), st.Cards, st.Due)
			}
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a deck and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			var deck domain.Deck
			err = store.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
				next, d, err := study.AddDeck(ds, args[0], now)
				deck = d
				return next, err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created deck %s (%s)\n", deck.Name, deck.ID)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a deck",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			return store.Apply(func(ds domain.DataSet, _ time.Time) (domain.DataSet, error) {
				return study.RenameDeck(ds, args[0], args[1])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a deck and all of its cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			err = store.Apply(func(ds domain.DataSet, _ time.Time) (domain.DataSet, error) {
				return study.DeleteDeck(ds, args[0])
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted deck %s\n", args[0])
			return nil
		},
	}

	use := &cobra.Command{
		Use:   "use <id>",
		Short: "Make a deck the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			return store.Apply(func(ds domain.DataSet, _ time.Time) (domain.DataSet, error) {
				return study.SetActiveDeck(ds, args[0])
			})
		},
	}

	cmd.AddCommand(list, add, rename, del, use)
	return cmd
}
