package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := Open(DefaultConfig(filepath.Join(t.TempDir(), "results.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc, err := NewService(context.Background(), db)
	require.NoError(t, err)
	return svc
}

func sampleDraft(id string, seed int64) *DraftRecord {
	return &DraftRecord{
		ID:        id,
		Seed:      seed,
		Picks:     []string{"Tide Reader", "Stalwart Guard", "Tide Reader"},
		Deck:      []string{"Tide Reader", "Island", "Island"},
		WinRate:   0.625,
		CreatedAt: time.Now().UTC(),
	}
}

func TestSaveAndGetDraft(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	rec := sampleDraft("d1", 42)
	require.NoError(t, svc.SaveDraft(ctx, rec))

	got, err := svc.GetDraft(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Seed, got.Seed)
	assert.Equal(t, rec.Picks, got.Picks)
	assert.Equal(t, rec.Deck, got.Deck)
	assert.Equal(t, rec.WinRate, got.WinRate)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestSaveDraftUpserts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveDraft(ctx, sampleDraft("d1", 1)))

	updated := sampleDraft("d1", 1)
	updated.WinRate = 1
	require.NoError(t, svc.SaveDraft(ctx, updated))

	got, err := svc.GetDraft(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got.WinRate)

	drafts, err := svc.ListDrafts(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestGetDraftNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetDraft(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDraftsNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	older := sampleDraft("old", 1)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleDraft("new", 2)

	require.NoError(t, svc.SaveDraft(ctx, older))
	require.NoError(t, svc.SaveDraft(ctx, newer))

	drafts, err := svc.ListDrafts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "new", drafts[0].ID)
	assert.Equal(t, "old", drafts[1].ID)

	limited, err := svc.ListDrafts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMatchResultsRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveDraft(ctx, sampleDraft("d1", 9)))

	results := []MatchRecord{
		{Opponent: "decks/red.dck", Winner: 1, Duration: 4821 * time.Millisecond},
		{Opponent: "decks/blue.dck", Winner: 2, Duration: 1400 * time.Millisecond},
	}
	require.NoError(t, svc.SaveMatchResults(ctx, "d1", results))

	got, err := svc.GetMatchResults(ctx, "d1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, r := range got {
		assert.Equal(t, "d1", r.DraftID)
		assert.Equal(t, results[i].Opponent, r.Opponent)
		assert.Equal(t, results[i].Winner, r.Winner)
		assert.Equal(t, results[i].Duration, r.Duration)
	}
}

func TestSaveMatchResultsEmptyIsNoop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SaveMatchResults(ctx, "d1", nil))

	got, err := svc.GetMatchResults(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
