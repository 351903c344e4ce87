// Package sync pulls cards written in markdown files, locally or in git
// repositories, into decks.
package sync

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/gitsource"
	"github.com/conorfennell/edusprint/internal/parser"
	"github.com/conorfennell/edusprint/internal/storage"
	"github.com/conorfennell/edusprint/internal/study"
)

// Sources lists configured card sources and records scans.
type Sources interface {
	GetAllSources() ([]storage.Source, error)
	UpdateSourceLastScanned(sourceID int64, at time.Time) error
}

// Syncer reconciles every configured source into the store.
type Syncer struct {
	Sources  Sources
	Store    *study.Store
	ReposDir string
}

// RunSync iterates over all sources and reconciles them. Failures of one
// source are logged and do not stop the others; the first one is returned.
func (s *Syncer) RunSync(ctx context.Context) error {
	slog.Info("Starting sync process for all sources...")
	sources, err := s.Sources.GetAllSources()
	if err != nil {
		return fmt.Errorf("failed to get sources: %w", err)
	}

	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with: edusprint source add <path/or/url.git>")
		return nil
	}

	var firstErr error
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path, "deck", source.DeckID)
		if err := s.syncSource(ctx, source); err != nil {
			slog.Error("Failed to sync source", "path", source.Path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	slog.Info("Sync process complete.")
	return firstErr
}

func (s *Syncer) syncSource(ctx context.Context, source storage.Source) error {
	dir := source.Path
	if source.Type == storage.SourceGit {
		localRepoPath, err := gitsource.LocalPath(s.ReposDir, source.Path)
		if err != nil {
			return err
		}
		if err := gitsource.Sync(ctx, source.Path, localRepoPath, nil); err != nil {
			return err
		}
		dir = localRepoPath
	}

	entries, parseErrors := ScanDir(dir)
	for _, e := range parseErrors {
		slog.Warn("Skipping unreadable card file", "error", e)
	}

	var res Result
	err := s.Store.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
		next, r, err := Reconcile(ds, source.DeckID, source.Path, entries, now)
		res = r
		return next, err
	})
	if err != nil {
		return fmt.Errorf("failed to reconcile %s: %w", source.Path, err)
	}

	if err := s.Sources.UpdateSourceLastScanned(source.ID, s.Store.Now()); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", source.ID, "error", err)
	}

	slog.Info("Reconciliation complete",
		"path", source.Path,
		"added", res.Added,
		"kept", res.Kept,
		"removed", res.Removed,
		"errors", len(parseErrors),
	)
	return nil
}

// ScanDir parses every .md file below dir. Files that fail to parse are
// reported and skipped; a walk error is reported as well.
func ScanDir(dir string) ([]parser.Entry, []error) {
	var entries []parser.Entry
	var errs []error

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}
		fileEntries, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			errs = append(errs, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		entries = append(entries, fileEntries...)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("walking %s: %w", dir, walkErr))
	}
	return entries, errs
}
