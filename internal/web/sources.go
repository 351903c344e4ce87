package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/conorfennell/edusprint/internal/gitsource"
	"github.com/conorfennell/edusprint/internal/storage"
	"github.com/conorfennell/edusprint/internal/study"
)

type sourcesPage struct {
	Sources []storage.Source
	Decks   []study.DeckStat
	Notice  string
	CanSync bool
}

func (s *Server) renderSources(w http.ResponseWriter, status int, notice string) {
	sources, err := s.sources.GetAllSources()
	if err != nil {
		slog.Error("Error getting sources", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.render(w, status, "sources", sourcesPage{
		Sources: sources,
		Decks:   study.DeckStats(s.store.Snapshot(), s.store.Now()),
		Notice:  notice,
		CanSync: s.syncer != nil,
	})
}

// handleGetSources renders the sources management page.
func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	s.renderSources(w, http.StatusOK, r.URL.Query().Get("notice"))
}

// handlePostSource adds a new source feeding the chosen deck, or the active
// deck when none is given.
func (s *Server) handlePostSource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSpace(r.PostFormValue("path"))
	if path == "" {
		http.Error(w, "Path cannot be empty", http.StatusBadRequest)
		return
	}

	ds := s.store.Snapshot()
	deckID := r.PostFormValue("deck")
	if deckID == "" {
		deckID = study.ActiveDeckID(ds)
	}
	if ds.FindDeck(deckID) < 0 {
		http.Error(w, "Unknown deck", http.StatusBadRequest)
		return
	}

	sourceType := storage.SourceLocal
	if gitsource.IsGitURL(path) {
		sourceType = storage.SourceGit
	}
	if _, err := s.sources.InsertSource(path, sourceType, deckID); err != nil {
		slog.Error("Error inserting new source", "path", path, "error", err)
		http.Error(w, "Failed to add source", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/sources", http.StatusSeeOther)
}

// handleDeleteSource removes a source. Cards it produced stay in their deck.
func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid source ID", http.StatusBadRequest)
		return
	}
	if err := s.sources.DeleteSource(id); err != nil {
		slog.Error("Error deleting source", "id", id, "error", err)
		http.Error(w, "Failed to delete source", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/sources", http.StatusSeeOther)
}

// handlePostSync runs a sync in the foreground and re-renders the sources.
func (s *Server) handlePostSync(w http.ResponseWriter, r *http.Request) {
	if err := s.syncer.RunSync(r.Context()); err != nil {
		slog.Warn("Sync finished with errors", "error", err)
		if s.sources == nil {
			http.Error(w, "Sync failed", http.StatusInternalServerError)
			return
		}
		s.renderSources(w, http.StatusOK, "Sync finished with errors: "+err.Error())
		return
	}
	if s.sources == nil {
		http.Redirect(w, r, noticeURL("Sync complete"), http.StatusSeeOther)
		return
	}
	s.renderSources(w, http.StatusOK, "Sync complete")
}
