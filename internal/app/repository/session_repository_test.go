package repository

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/variant-editor/internal/app/model"
	"github.com/ikkim/variant-editor/internal/app/variant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRecord(id string, lastAccess time.Time) *SessionRecord {
	return &SessionRecord{
		Session: model.Session{ID: id, CreatedAt: lastAccess, LastAccessedAt: lastAccess},
		Editor:  variant.NewEditor(variant.Config{}),
	}
}

func setupSessionTest(t *testing.T) SessionRepository {
	repo := NewSessionRepository()
	require.NoError(t, repo.Create(newRecord("a", baseTime)))
	require.NoError(t, repo.Create(newRecord("b", baseTime.Add(10*time.Minute))))
	return repo
}

func TestSessionRepository_Create(t *testing.T) {
	repo := setupSessionTest(t)

	assert.Equal(t, 2, repo.Count())
	assert.Error(t, repo.Create(newRecord("a", baseTime)), "duplicate id")
	assert.Error(t, repo.Create(newRecord("", baseTime)), "empty id")
	assert.Error(t, repo.Create(nil))
}

func TestSessionRepository_FindByID(t *testing.T) {
	repo := setupSessionTest(t)

	record, err := repo.FindByID("a")
	require.NoError(t, err)
	assert.Equal(t, "a", record.Session.ID)
	assert.NotNil(t, record.Editor)

	_, err = repo.FindByID("missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := setupSessionTest(t)

	require.NoError(t, repo.Delete("a"))
	assert.Equal(t, 1, repo.Count())
	assert.ErrorIs(t, repo.Delete("a"), ErrRecordNotFound)
}

func TestSessionRepository_Touch(t *testing.T) {
	repo := setupSessionTest(t)

	later := baseTime.Add(time.Hour)
	require.NoError(t, repo.Touch("a", later))
	require.NoError(t, repo.Touch("a", baseTime), "older timestamps are ignored")

	record, err := repo.FindByID("a")
	require.NoError(t, err)
	assert.Equal(t, later, record.Session.LastAccessedAt)

	assert.ErrorIs(t, repo.Touch("missing", later), ErrRecordNotFound)
}

func TestSessionRepository_DeleteIdleSince(t *testing.T) {
	tests := []struct {
		name      string
		cutoff    time.Time
		wantGone  []string
		wantCount int
	}{
		{"Nothing idle", baseTime, nil, 2},
		{"One idle", baseTime.Add(5 * time.Minute), []string{"a"}, 1},
		{"All idle", baseTime.Add(time.Hour), []string{"a", "b"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupSessionTest(t)

			removed, err := repo.DeleteIdleSince(tt.cutoff)
			require.NoError(t, err)
			sort.Strings(removed)
			assert.Equal(t, tt.wantGone, removed)
			assert.Equal(t, tt.wantCount, repo.Count())
		})
	}
}

func TestSessionRepository_ConcurrentAccess(t *testing.T) {
	repo := NewSessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('A' + i))
			assert.NoError(t, repo.Create(newRecord(id, baseTime)))
			_ = repo.Touch(id, baseTime.Add(time.Minute))
			_, _ = repo.FindByID(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Count())
}
