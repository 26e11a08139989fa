package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested draft does not exist.
var ErrNotFound = errors.New("storage: draft not found")

// DraftRecord is one finished draft: the seed that produced it, the pick
// history and assembled deck as card names, and the gauntlet win rate.
type DraftRecord struct {
	ID        string
	Seed      int64
	Picks     []string
	Deck      []string
	WinRate   float64
	CreatedAt time.Time
}

// MatchRecord is one adjudicated match against a gauntlet deck.
type MatchRecord struct {
	DraftID  string
	Opponent string
	Winner   int // 1 means the drafted deck won
	Duration time.Duration
}

// Service provides draft result persistence over an open DB.
type Service struct {
	db *DB
}

// NewService creates a result store and ensures its schema exists.
func NewService(ctx context.Context, db *DB) (*Service, error) {
	s := &Service{db: db}
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS drafts (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			picks TEXT NOT NULL,
			deck TEXT NOT NULL,
			win_rate REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS match_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			draft_id TEXT NOT NULL REFERENCES drafts(id),
			opponent TEXT NOT NULL,
			winner INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_match_results_draft ON match_results(draft_id);
	`
	if _, err := s.db.Conn().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create result schema: %w", err)
	}
	return nil
}

// SaveDraft stores a finished draft, replacing any earlier record with the
// same id.
func (s *Service) SaveDraft(ctx context.Context, rec *DraftRecord) error {
	picksJSON, err := json.Marshal(rec.Picks)
	if err != nil {
		return fmt.Errorf("failed to marshal picks: %w", err)
	}
	deckJSON, err := json.Marshal(rec.Deck)
	if err != nil {
		return fmt.Errorf("failed to marshal deck: %w", err)
	}

	query := `
		INSERT INTO drafts (id, seed, picks, deck, win_rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			seed = excluded.seed,
			picks = excluded.picks,
			deck = excluded.deck,
			win_rate = excluded.win_rate
	`
	_, err = s.db.Conn().ExecContext(ctx, query,
		rec.ID,
		rec.Seed,
		string(picksJSON),
		string(deckJSON),
		rec.WinRate,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by id.
func (s *Service) GetDraft(ctx context.Context, id string) (*DraftRecord, error) {
	query := `SELECT id, seed, picks, deck, win_rate, created_at FROM drafts WHERE id = ?`

	var rec DraftRecord
	var picksJSON, deckJSON string
	err := s.db.Conn().QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Seed, &picksJSON, &deckJSON, &rec.WinRate, &rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	if err := json.Unmarshal([]byte(picksJSON), &rec.Picks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal picks: %w", err)
	}
	if err := json.Unmarshal([]byte(deckJSON), &rec.Deck); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck: %w", err)
	}
	return &rec, nil
}

// ListDrafts returns the most recent drafts, newest first.
func (s *Service) ListDrafts(ctx context.Context, limit int) ([]*DraftRecord, error) {
	query := `SELECT id, seed, picks, deck, win_rate, created_at FROM drafts ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.Conn().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*DraftRecord
	for rows.Next() {
		var rec DraftRecord
		var picksJSON, deckJSON string
		if err := rows.Scan(&rec.ID, &rec.Seed, &picksJSON, &deckJSON, &rec.WinRate, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		if err := json.Unmarshal([]byte(picksJSON), &rec.Picks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal picks: %w", err)
		}
		if err := json.Unmarshal([]byte(deckJSON), &rec.Deck); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deck: %w", err)
		}
		drafts = append(drafts, &rec)
	}
	return drafts, rows.Err()
}

// SaveMatchResults stores the match results for a draft in one transaction.
func (s *Service) SaveMatchResults(ctx context.Context, draftID string, results []MatchRecord) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op once committed
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_results (draft_id, opponent, winner, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range results {
		if _, err := stmt.ExecContext(ctx, draftID, r.Opponent, r.Winner, r.Duration.Milliseconds(), now); err != nil {
			return fmt.Errorf("failed to save match result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match results: %w", err)
	}
	return nil
}

// GetMatchResults retrieves the stored match results for a draft.
func (s *Service) GetMatchResults(ctx context.Context, draftID string) ([]MatchRecord, error) {
	query := `SELECT draft_id, opponent, winner, duration_ms FROM match_results WHERE draft_id = ? ORDER BY id`

	rows, err := s.db.Conn().QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match results: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		var r MatchRecord
		var ms int64
		if err := rows.Scan(&r.DraftID, &r.Opponent, &r.Winner, &ms); err != nil {
			return nil, fmt.Errorf("failed to scan match result: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}
