package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/edusprint/internal/domain"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustLoad(t *testing.T, db *DB, now time.Time) domain.DataSet {
	t.Helper()
	ds, err := db.Load(now)
	require.NoError(t, err)
	return ds
}

func TestLoadWithoutStoredDataReturnsDefault(t *testing.T) {
	db := openTestDB(t)
	assert.Equal(t, Default(t0), mustLoad(t, db, t0))
}

func TestLoadReadErrorIsReturned(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), "")
	require.NoError(t, err)

	stored := Default(t0)
	stored.ActiveDeckID = ""
	require.NoError(t, db.Save(stored))
	require.NoError(t, db.Close())

	ds, err := db.Load(t0)
	require.Error(t, err)
	assert.Empty(t, ds.Decks, "no default data set to save over the stored one")
}

func TestDefault(t *testing.T) {
	ds := Default(t0)
	require.Len(t, ds.Decks, 1)
	assert.Equal(t, "default", ds.Decks[0].ID)
	assert.Equal(t, "Default", ds.Decks[0].Name)
	assert.Equal(t, "default", ds.ActiveDeckID)
	assert.Len(t, ds.Cards, 4)
	assert.NotNil(t, ds.Sessions)
	for _, c := range ds.Cards {
		assert.Equal(t, domain.InitialEase, c.Ease)
		assert.True(t, c.IsDue(t0))
		require.NoError(t, c.Validate())
	}
	require.NoError(t, ds.Validate())
}

func TestSaveThenLoad(t *testing.T) {
	db := openTestDB(t)
	ds := Default(t0)
	ds.Decks = append(ds.Decks, domain.Deck{ID: "fr", Name: "French", CreatedAt: 7})
	ds.ActiveDeckID = "fr"
	ds.Sessions = append(ds.Sessions, domain.Session{StartedAt: 1, SecondsFocused: 60})

	require.NoError(t, db.Save(ds))
	assert.Equal(t, ds, mustLoad(t, db, t0.Add(time.Hour)))

	ds.ActiveDeckID = "default"
	require.NoError(t, db.Save(ds))
	assert.Equal(t, "default", mustLoad(t, db, t0).ActiveDeckID)
}

func TestLoadMalformedFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{oops"},
		{"missing cards", `{"decks": []}`},
		{"cards not array", `{"decks": [], "cards": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			require.NoError(t, db.SaveRaw([]byte(tt.payload)))
			assert.Equal(t, Default(t0), mustLoad(t, db, t0))
		})
	}
}

func TestKeysAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	a, err := Open(path, "a")
	require.NoError(t, err)
	defer a.Close()
	b, err := Open(path, "b")
	require.NoError(t, err)
	defer b.Close()

	ds := Default(t0)
	ds.ActiveDeckID = ""
	require.NoError(t, a.Save(ds))

	assert.Equal(t, "", mustLoad(t, a, t0).ActiveDeckID)
	assert.Equal(t, "default", mustLoad(t, b, t0).ActiveDeckID)
}

func TestReviewLogs(t *testing.T) {
	db := openTestDB(t)
	logs := []domain.ReviewLog{
		{CardID: "c1", DeckID: "d", Grade: 2, ReviewedAt: t0, IntervalDays: 1, Ease: 2.45},
		{CardID: "c2", DeckID: "d", Grade: 0, ReviewedAt: t0, IntervalDays: 0.5, Ease: 2.15},
		{CardID: "c1", DeckID: "d", Grade: 3, ReviewedAt: t0.Add(24 * time.Hour), IntervalDays: 2.74, Ease: 2.74},
	}
	for _, l := range logs {
		require.NoError(t, db.AppendReviewLog(l))
	}

	got, err := db.ReviewLogsByCard("c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Grade)
	assert.Equal(t, 3, got[1].Grade)
	assert.True(t, got[0].ReviewedAt.Equal(t0), "reviewed at %v", got[0].ReviewedAt)
	assert.InDelta(t, 2.45, got[0].Ease, 1e-9)

	none, err := db.ReviewLogsByCard("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSources(t *testing.T) {
	db := openTestDB(t)

	id, err := db.InsertSource("/notes", SourceLocal, "default")
	require.NoError(t, err)
	_, err = db.InsertSource("https://example.com/cards.git", SourceGit, "default")
	require.NoError(t, err)

	_, err = db.InsertSource("/notes", SourceLocal, "default")
	assert.Error(t, err, "paths are unique")

	s, err := db.FindSourceByPath("/notes")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, SourceLocal, s.Type)
	assert.False(t, s.LastScanned.Valid)

	missing, err := db.FindSourceByPath("/nowhere")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, db.UpdateSourceLastScanned(id, t0))
	s, err = db.FindSourceByPath("/notes")
	require.NoError(t, err)
	assert.True(t, s.LastScanned.Valid)

	all, err := db.GetAllSources()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, SourceGit, all[1].Type)

	require.NoError(t, db.DeleteSource(id))
	assert.Error(t, db.DeleteSource(id))
	all, err = db.GetAllSources()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
