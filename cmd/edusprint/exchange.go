package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/exchange"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all decks, cards and sessions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			payload, err := exchange.Export(store.Snapshot())
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				_, err := fmt.Fprintln(a.out, string(payload))
				return err
			}
			if err := os.WriteFile(out, payload, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(a.out, "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			ds, err := exchange.Import(payload)
			if err != nil {
				fmt.Fprintln(a.out, "Import failed")
				return err
			}
			if err := store.Replace(ds); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d deck(s), %d card(s), %d session(s)\n", len(ds.Decks), len(ds.Cards), len(ds.Sessions))
			return nil
		},
	}
}
