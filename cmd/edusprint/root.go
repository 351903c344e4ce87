package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/edusprint/internal/config"
	"github.com/conorfennell/edusprint/internal/logging"
	"github.com/conorfennell/edusprint/internal/storage"
	"github.com/conorfennell/edusprint/internal/study"
)

// app carries what every command shares. The database is opened on first
// use so commands like --help never touch it.
type app struct {
	in    io.Reader
	out   io.Writer
	clock func() time.Time
	rng   *rand.Rand

	cfg   config.Config
	db    *storage.DB
	store *study.Store
}

// run builds the command tree, executes args and closes the database.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{
		in:    in,
		out:   out,
		clock: time.Now,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	def := config.Default()
	root := &cobra.Command{
		Use:           "edusprint",
		Short:         "Flashcards, spaced repetition and focus sessions",
		Long:          "EduSprint keeps decks of flashcards, schedules reviews with spaced repetition, quizzes you, and times focus sessions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default ./"+config.DefaultFile+" if present)")
	pf.String("db", def.DB, "Path to the SQLite database file")
	pf.String("repos-dir", def.ReposDir, "Directory git sources are cloned into")
	pf.String("log-level", def.Log.Level, "Log level: debug, info, warn or error")
	pf.String("log-format", def.Log.Format, "Log format: text or json")

	root.AddCommand(
		a.dueCmd(),
		a.reviewCmd(),
		a.deckCmd(),
		a.cardCmd(),
		a.quizCmd(),
		a.timerCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.sourceCmd(),
		a.syncCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// open loads the data set into a store backed by the database.
func (a *app) open() (*study.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	db, err := storage.Open(a.cfg.DB, a.cfg.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", a.cfg.DB, err)
	}
	ds, err := db.Load(a.clock())
	if err != nil {
		db.Close()
		return nil, err
	}
	a.db = db
	a.store = study.NewStore(ds, db, db, a.clock)
	return a.store, nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db, a.store = nil, nil
	return err
}

// deckOrActive resolves the --deck flag, falling back to the active deck.
func deckOrActive(cmd *cobra.Command, store *study.Store) (string, error) {
	ds := store.Snapshot()
	id, _ := cmd.Flags().GetString("deck")
	if id == "" {
		return study.ActiveDeckID(ds), nil
	}
	if ds.FindDeck(id) < 0 {
		return "", fmt.Errorf("%w: %s", study.ErrDeckNotFound, id)
	}
	return id, nil
}
