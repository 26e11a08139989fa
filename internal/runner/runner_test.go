package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BigFish003/MTGnew/internal/catalog"
	"github.com/BigFish003/MTGnew/internal/config"
	"github.com/BigFish003/MTGnew/internal/storage"
)

func testIndex(t *testing.T) *catalog.Index {
	t.Helper()

	records := []catalog.Record{
		{Name: "Plains", ColorIdentity: []string{"W"}, Rarity: "common", IsBasicLand: true},
		{Name: "Island", ColorIdentity: []string{"U"}, Rarity: "common", IsBasicLand: true},
	}
	wheel := []string{"W", "U", "B", "R", "G"}
	for i := 0; i < 25; i++ {
		records = append(records, catalog.Record{
			Name:          fmt.Sprintf("Common %02d", i),
			ColorIdentity: []string{wheel[i%len(wheel)]},
			Rarity:        "common",
		})
	}
	for i := 0; i < 8; i++ {
		records = append(records, catalog.Record{
			Name:          fmt.Sprintf("Uncommon %02d", i),
			ColorIdentity: []string{wheel[i%len(wheel)]},
			Rarity:        "uncommon",
		})
	}
	records = append(records, catalog.Record{Name: "Rare 00", ColorIdentity: []string{"R"}, Rarity: "rare"})

	idx, err := catalog.Build(records)
	require.NoError(t, err)
	return idx
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Draft.Seats = 4
	cfg.Draft.Rounds = 2
	cfg.Draft.MainCount = 20
	cfg.Draft.LandCount = 10
	cfg.Draft.SetCode = "TST"
	cfg.Arbiter.DeckDir = t.TempDir()
	cfg.Arbiter.JarPath = "" // no gauntlet in tests
	return cfg
}

func TestRunExportsDeck(t *testing.T) {
	cfg := testConfig(t)

	err := Run(context.Background(), cfg, testIndex(t), nil, Options{Seed: 42})
	require.NoError(t, err)

	path := filepath.Join(cfg.Arbiter.DeckDir, "draft_deck_42.dck")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[metadata]")
	assert.Contains(t, content, "Name=draft_deck_42")
	assert.Contains(t, content, "|TST|1")

	total := 0
	for _, line := range strings.Split(content, "\n") {
		var n int
		var rest string
		if _, err := fmt.Sscanf(line, "%d %s", &n, &rest); err == nil {
			total += n
		}
	}
	assert.Equal(t, cfg.Draft.MainCount+cfg.Draft.LandCount, total,
		"counted deck lines must add up to the full deck")
}

func TestRunHonorsDeckNameOption(t *testing.T) {
	cfg := testConfig(t)

	err := Run(context.Background(), cfg, testIndex(t), nil, Options{Seed: 1, DeckName: "my_deck"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.Arbiter.DeckDir, "my_deck.dck"))
	assert.NoError(t, err)
}

func TestRunPersistsDraft(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	db, err := storage.Open(storage.DefaultConfig(filepath.Join(t.TempDir(), "runner.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := storage.NewService(ctx, db)
	require.NoError(t, err)

	require.NoError(t, Run(ctx, cfg, testIndex(t), store, Options{Seed: 7}))

	rec, err := store.GetDraft(ctx, "sim_7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.Seed)
	assert.Len(t, rec.Picks, cfg.Draft.Rounds*cfg.Draft.PackSize)
	assert.Len(t, rec.Deck, cfg.Draft.MainCount+cfg.Draft.LandCount)
	assert.Zero(t, rec.WinRate, "no gauntlet means no wins recorded")
}
