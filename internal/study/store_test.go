package study

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/edusprint/internal/domain"
	"github.com/conorfennell/edusprint/internal/srs"
)

type memPersister struct {
	mu    sync.Mutex
	saved []domain.DataSet
	err   error
}

func (m *memPersister) Save(ds domain.DataSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, ds)
	return nil
}

type memRecorder struct {
	logs []domain.ReviewLog
}

func (m *memRecorder) AppendReviewLog(l domain.ReviewLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStoreApplyPersistsAndReplaces(t *testing.T) {
	p := &memPersister{}
	s := NewStore(fixture(), p, nil, fixedClock(t0))

	err := s.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
		return SetActiveDeck(ds, "bio")
	})
	require.NoError(t, err)

	assert.Equal(t, "bio", s.Snapshot().ActiveDeckID)
	require.Len(t, p.saved, 1)
	assert.Equal(t, "bio", p.saved[0].ActiveDeckID)
}

func TestStoreApplyKeepsStateOnFailure(t *testing.T) {
	t.Run("transition error", func(t *testing.T) {
		p := &memPersister{}
		s := NewStore(fixture(), p, nil, fixedClock(t0))
		err := s.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
			return DeleteDeck(ds, "nope")
		})
		assert.ErrorIs(t, err, ErrDeckNotFound)
		assert.Len(t, s.Snapshot().Decks, 2)
		assert.Empty(t, p.saved)
	})

	t.Run("save error", func(t *testing.T) {
		p := &memPersister{err: errors.New("disk full")}
		s := NewStore(fixture(), p, nil, fixedClock(t0))
		err := s.Apply(func(ds domain.DataSet, now time.Time) (domain.DataSet, error) {
			return SetActiveDeck(ds, "bio")
		})
		require.Error(t, err)
		assert.Equal(t, "default", s.Snapshot().ActiveDeckID)
	})
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore(fixture(), nil, nil, fixedClock(t0))
	snap := s.Snapshot()
	snap.Cards[0].Front = "mutated"
	assert.Equal(t, "f1", s.Snapshot().Cards[0].Front)
}

func TestStoreGrade(t *testing.T) {
	rec := &memRecorder{}
	s := NewStore(fixture(), &memPersister{}, rec, fixedClock(t0))

	due := s.Due("")
	require.Len(t, due, 2)
	assert.Equal(t, "c1", due[0].ID)
	assert.Equal(t, "c3", due[1].ID)

	card, err := s.Grade("c1", srs.Again)
	require.NoError(t, err)
	assert.Equal(t, 0.5, card.IntervalDays)
	assert.Equal(t, 1, card.Lapses)

	require.Len(t, rec.logs, 1)
	assert.Equal(t, "c1", rec.logs[0].CardID)
	assert.Equal(t, int(srs.Again), rec.logs[0].Grade)

	due = s.Due("")
	require.Len(t, due, 1)
	assert.Equal(t, "c3", due[0].ID)

	_, err = s.Grade("nope", srs.Good)
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Len(t, rec.logs, 1)
}

func TestStoreConcurrentGrades(t *testing.T) {
	ds := fixture()
	for i := 0; i < 50; i++ {
		ds.Cards = append(ds.Cards, domain.Card{
			ID: "bulk-" + string(rune('A'+i)), DeckID: "default", Front: "f", Back: "b", Ease: 2.3,
		})
	}
	s := NewStore(ds, &memPersister{}, nil, fixedClock(t0))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := s.Grade(id, srs.Good)
			assert.NoError(t, err)
		}("bulk-" + string(rune('A'+i)))
	}
	wg.Wait()

	for _, c := range s.Snapshot().Cards {
		if len(c.ID) > 5 && c.ID[:5] == "bulk-" {
			assert.Equal(t, 1, c.Reps, c.ID)
		}
	}
}
