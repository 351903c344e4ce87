package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/gitsource"
	"github.com/conorfennell/edusprint/internal/storage"
	cardsync "github.com/conorfennell/edusprint/internal/sync"
)

func (a *app) sourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage markdown card sources",
	}

	add := &cobra.Command{
		Use:   "add <path/or/url.git>",
		Short: "Add a local directory or git repository of markdown cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open()
			if err != nil {
				return err
			}
			deckID, err := deckOrActive(cmd, store)
			if err != nil {
				return err
			}

			path, sourceType := args[0], storage.SourceGit
			if !gitsource.IsGitURL(path) {
				sourceType = storage.SourceLocal
				if path, err = filepath.Abs(path); err != nil {
					return fmt.Errorf("failed to resolve %s: %w", args[0], err)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("failed to read source: %w", err)
				}
				if !info.IsDir() {
					return fmt.Errorf("source %s is not a directory", path)
				}
			}

			existing, err := a.db.FindSourceByPath(path)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("source %s already exists with id %d", path, existing.ID)
			}
			id, err := a.db.InsertSource(path, sourceType, deckID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added %s source %d: %s -> deck %s\n", sourceType, id, path, deckID)
			return nil
		},
	}
	add.Flags().String("deck", "", "Deck the cards go into (default: active deck)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List card sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.open(); err != nil {
				return err
			}
			sources, err := a.db.GetAllSources()
			if err != nil {
				return err
			}
			for _, s := range sources {
				scanned := "never"
				if s.LastScanned.Valid {
					scanned = s.LastScanned.Time.Local().Format("2006-01-02 15:04")
				}
				fmt.Fprintf(a.out, "%4d  %-5s  %-16s  %-16s  %s\n", s.ID, s.Type, oneLine(s.DeckID, 16), scanned, s.Path)
			}
			fmt.Fprintf(a.out, "%d source(s)\n", len(sources))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a card source; its cards stay in the deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			if _, err := a.open(); err != nil {
				return err
			}
			return a.db.DeleteSource(id)
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}

func (a *app) syncer() (*cardsync.Syncer, error) {
	store, err := a.open()
	if err != nil {
		return nil, err
	}
	return &cardsync.Syncer{Sources: a.db, Store: store, ReposDir: a.cfg.ReposDir}, nil
}

func (a *app) syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull cards from every source into their decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.syncer()
			if err != nil {
				return err
			}
			if err := s.RunSync(cmd.Context()); err != nil {
				return err
			}
			if watch, _ := cmd.Flags().GetBool("watch"); !watch {
				return nil
			}
			return a.watch(cmd.Context(), s)
		},
	}
	cmd.Flags().Bool("watch", false, "Keep running and sync again when local markdown files change")
	return cmd
}

// watch re-syncs whenever a local source changes, until ctx is done.
func (a *app) watch(ctx context.Context, s *cardsync.Syncer) error {
	sources, err := a.db.GetAllSources()
	if err != nil {
		return err
	}
	var dirs []string
	for _, src := range sources {
		if src.Type == storage.SourceLocal {
			dirs = append(dirs, src.Path)
		}
	}
	if len(dirs) == 0 {
		return errors.New("no local sources to watch")
	}

	fmt.Fprintf(a.out, "Watching %d source(s). Press Ctrl-C to stop.\n", len(dirs))
	err = cardsync.Watch(ctx, dirs, a.cfg.Sync.Debounce, func() {
		if err := s.RunSync(ctx); err != nil {
			slog.Warn("Sync finished with errors", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
