package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/srs"
	"github.com/conorfennell/edusprint/internal/study"
)

// Store is the part of study.Store the handlers need.
type Store interface {
	Now() time.Time
	Snapshot() domain.DataSet
	Apply(fn func(ds domain.DataSet, now time.Time) (domain.DataSet, error)) error
	Replace(ds domain.DataSet) error
	Grade(cardID string, g srs.Grade) (domain.Card, error)
	Due(deckID string) []domain.Card
}

var _ Store = (*study.Store)(nil)

type indexPage struct {
	Decks  []study.DeckStat
	Due    int
	Notice string
}

type gradeOption struct {
	Grade    int
	Label    string
	Interval string
}

type cardPage struct {
	Card      domain.Card
	DeckName  string
	Remaining int
	Options   []gradeOption
}

// handleIndex renders the deck list with due counts.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, r.URL.Query().Get("notice"))
}

func (s *Server) renderIndex(w http.ResponseWriter, status int, notice string) {
	ds := s.store.Snapshot()
	stats := study.DeckStats(ds, s.store.Now())
	page := indexPage{Decks: stats, Notice: notice}
	for _, st := range stats {
		if st.Active {
			page.Due = st.Due
		}
	}
	s.render(w, status, "index", page)
}

// handleActivateDeck switches the active deck and returns to the deck list.
func (s *Server) handleActivateDeck(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.store.Apply(func(ds domain.DataSet, _ time.Time) (domain.DataSet, error) {
		return study.SetActiveDeck(ds, id)
	})
	if errors.Is(err, study.ErrDeckNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("Error activating deck", "deck", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleNextReview renders the front of the first due card of the active
// deck, or the deck list when nothing is due.
func (s *Server) handleNextReview(w http.ResponseWriter, r *http.Request) {
	due := s.store.Due("")
	if len(due) == 0 {
		s.renderIndex(w, http.StatusOK, "Nothing due. Well done.")
		return
	}
	ds := s.store.Snapshot()
	s.render(w, http.StatusOK, "card_front", cardPage{
		Card:      due[0],
		DeckName:  deckName(ds, due[0].DeckID),
		Remaining: len(due),
	})
}

// handleShowAnswer renders the back of a card along with what each grade
// would schedule.
func (s *Server) handleShowAnswer(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ds := s.store.Snapshot()
	i := ds.FindCard(id)
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	card := ds.Cards[i]

	preview, err := srs.Preview(card, s.store.Now())
	if err != nil {
		slog.Error("Error previewing card", "card", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	options := make([]gradeOption, 0, len(srs.Grades))
	for _, g := range srs.Grades {
		options = append(options, gradeOption{
			Grade:    int(g),
			Label:    g.String(),
			Interval: FormatInterval(preview[g].IntervalDays),
		})
	}
	s.render(w, http.StatusOK, "card_back", cardPage{
		Card:     card,
		DeckName: deckName(ds, card.DeckID),
		Options:  options,
	})
}

// handlePostReview grades a card and moves on to the next one.
func (s *Server) handlePostReview(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	g, err := srs.ParseGrade(r.PostFormValue("grade"))
	if err != nil {
		http.Error(w, "Invalid grade", http.StatusBadRequest)
		return
	}

	if _, err := s.store.Grade(id, g); err != nil {
		if errors.Is(err, study.ErrCardNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("Error grading card", "card", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/review/next", http.StatusSeeOther)
}

func deckName(ds domain.DataSet, id string) string {
	if i := ds.FindDeck(id); i >= 0 {
		return ds.Decks[i].Name
	}
	return id
}

// FormatInterval renders an interval in days for humans: hours below one
// day, whole days up to a month, then months.
func FormatInterval(days float64) string {
	switch {
	case days < 1:
		return fmt.Sprintf("%dh", int(days*24+0.5))
	case days < 30:
		return fmt.Sprintf("%dd", int(days+0.5))
	default:
		return fmt.Sprintf("%.1fmo", days/30)
	}
}

func noticeURL(msg string) string {
	return "/?notice=" + url.QueryEscape(msg)
}
