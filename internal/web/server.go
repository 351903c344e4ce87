// Package web serves the browser review UI.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/conorfennell/edusprint/internal/storage"
)

//go:embed templates/*.html
var templateFiles embed.FS

// SourceStore manages the configured card sources.
type SourceStore interface {
	GetAllSources() ([]storage.Source, error)
	InsertSource(path, sourceType, deckID string) (int64, error)
	DeleteSource(sourceID int64) error
}

// Syncer pulls every source into the store.
type Syncer interface {
	RunSync(ctx context.Context) error
}

// Options wires the optional source management pages. When Sources is nil
// those routes are not registered.
type Options struct {
	Sources SourceStore
	Syncer  Syncer
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	store     Store
	sources   SourceStore
	syncer    Syncer
	router    *mux.Router
	templates *template.Template
}

// NewServer creates and configures a new server.
func NewServer(store Store, opts Options) (*Server, error) {
	tpl, err := template.New("").Funcs(funcs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		store:     store,
		sources:   opts.Sources,
		syncer:    opts.Syncer,
		router:    mux.NewRouter(),
		templates: tpl,
	}
	s.routes()
	return s, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/decks/{id}/activate", s.handleActivateDeck).Methods(http.MethodPost)

	s.router.HandleFunc("/review/next", s.handleNextReview).Methods(http.MethodGet)
	s.router.HandleFunc("/review/{id}/answer", s.handleShowAnswer).Methods(http.MethodGet)
	s.router.HandleFunc("/review/{id}", s.handlePostReview).Methods(http.MethodPost)

	s.router.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	s.router.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)

	if s.sources != nil {
		s.router.HandleFunc("/sources", s.handleGetSources).Methods(http.MethodGet)
		s.router.HandleFunc("/sources", s.handlePostSource).Methods(http.MethodPost)
		s.router.HandleFunc("/sources/{id:[0-9]+}", s.handleDeleteSource).Methods(http.MethodDelete)
		s.router.HandleFunc("/sources/{id:[0-9]+}/delete", s.handleDeleteSource).Methods(http.MethodPost)
	}
	if s.syncer != nil {
		s.router.HandleFunc("/sync", s.handlePostSync).Methods(http.MethodPost)
	}
}

// render executes a named template, logging failures that happen after the
// response has started.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "OK")
}

// ListenAndServe runs the server on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Serving review UI", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}
