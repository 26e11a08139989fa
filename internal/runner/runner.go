// Package runner drives one full headless draft end to end: a scripted agent
// drafts every turn, the deck is assembled and exported, the arbiter gauntlet
// adjudicates it, and the outcome is persisted.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BigFish003/MTGnew/internal"
	"github.com/BigFish003/MTGnew/internal/arbiter"
	"github.com/BigFish003/MTGnew/internal/catalog"
	"github.com/BigFish003/MTGnew/internal/config"
	"github.com/BigFish003/MTGnew/internal/draft"
	"github.com/BigFish003/MTGnew/internal/storage"
)

// Options controls one simulation run.
type Options struct {
	Seed     int64
	DeckName string
}

// Run executes the draft, builds and exports the deck, runs the gauntlet when
// an arbiter is configured, and saves the result when a store is provided.
func Run(ctx context.Context, cfg *config.Config, index *catalog.Index, store *storage.Service, opts Options) error {
	logger := internal.GetLogger()

	table := draft.NewTable(draft.Config{
		Seats:    cfg.Draft.Seats,
		Rounds:   cfg.Draft.Rounds,
		PackSize: cfg.Draft.PackSize,
	}, index.Pools(), nil)
	table.Reset(opts.Seed)

	for !table.Terminal() {
		slot := firstOpenSlot(table.Mask())
		if slot < 0 {
			return errors.New("runner: no pickable slot before draft completion")
		}
		if outcome := table.Apply(slot); !outcome.Accepted {
			return fmt.Errorf("runner: pick of slot %d rejected", slot)
		}
	}
	logger.Infow("draft complete", "seed", opts.Seed, "picks", len(table.Picks()))

	deckIDs := draft.BuildDeck(table.Picks(), index, index.BasicLandIDs(),
		cfg.Draft.MainCount, cfg.Draft.LandCount)
	deckNames := index.Names(deckIDs)

	deckName := opts.DeckName
	if deckName == "" {
		deckName = fmt.Sprintf("draft_deck_%d", opts.Seed)
	}
	deckFile, err := arbiter.WriteDeckFile(cfg.Arbiter.DeckDir, deckName, cfg.Draft.SetCode, deckNames)
	if err != nil {
		return fmt.Errorf("export deck: %w", err)
	}
	logger.Infow("deck exported", "file", deckFile, "cards", len(deckNames))

	winRate := 0.0
	var matches []storage.MatchRecord
	if cfg.Arbiter.JarPath != "" && len(cfg.Arbiter.Opponents) > 0 {
		arb, err := arbiter.New(cfg.Arbiter)
		if err != nil {
			return err
		}
		results, err := arb.MatchAll(ctx, deckFile, cfg.Arbiter.Opponents, cfg.Arbiter.Workers)
		if err != nil {
			return fmt.Errorf("run gauntlet: %w", err)
		}
		winRate = arbiter.WinRate(results)
		for _, r := range results {
			matches = append(matches, storage.MatchRecord{
				Opponent: r.Opponent,
				Winner:   r.Winner,
				Duration: r.Duration,
			})
		}
		logger.Infow("gauntlet complete", "matches", len(results), "win_rate", winRate)
	}

	if store != nil {
		draftID := fmt.Sprintf("sim_%d", opts.Seed)
		rec := &storage.DraftRecord{
			ID:        draftID,
			Seed:      opts.Seed,
			Picks:     index.Names(table.Picks()),
			Deck:      deckNames,
			WinRate:   winRate,
			CreatedAt: time.Now(),
		}
		if err := store.SaveDraft(ctx, rec); err != nil {
			return fmt.Errorf("persist draft: %w", err)
		}
		if err := store.SaveMatchResults(ctx, draftID, matches); err != nil {
			return fmt.Errorf("persist match results: %w", err)
		}
	}
	return nil
}

// firstOpenSlot returns the lowest pickable slot, or -1 when none remains.
func firstOpenSlot(mask []bool) int {
	for i, ok := range mask {
		if ok {
			return i
		}
	}
	return -1
}
