// Package scores persists finished rounds and serves the all-time table.
//
// A round is recorded when a player resets a session that has at least one
// attempt. Its score is the best single guess of the round and its attempts
// are the guesses it took to reach that score, so piling up guesses never
// climbs the table. Rounds are ordered by score (high first), then attempts
// (few first), then age (old first).
package scores

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is used when callers pass a non-positive limit.
const DefaultLimit = 20

// Round is one finished session round.
type Round struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"-"`
	PlayerName string    `json:"playerName"`
	Difficulty string    `json:"difficulty"`
	Score      int       `json:"score"`    // best single-guess points
	Attempts   int       `json:"attempts"` // guesses taken to reach Score
	CreatedAt  time.Time `json:"createdAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r, filling ID when empty, and bumps the owning user's
// counters when the player is a registered user.
func (s *Store) Record(ctx context.Context, r Round) (Round, error) {
	if r.PlayerID == "" {
		return Round{}, errors.New("scores: player id is required")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Round{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO rounds (id, player_id, player_name, difficulty, score, attempts, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PlayerID, r.PlayerName, r.Difficulty, r.Score, r.Attempts, r.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return Round{}, err
	}
	// No-op for anonymous players.
	if _, err := tx.ExecContext(ctx, `
        UPDATE users SET rounds_played = rounds_played + 1, best_score = MAX(best_score, ?)
        WHERE id = ?`, r.Score, r.PlayerID,
	); err != nil {
		return Round{}, err
	}
	return r, tx.Commit()
}

// Top returns the best rounds, optionally filtered by difficulty.
func (s *Store) Top(ctx context.Context, difficulty string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, player_id, player_name, difficulty, score, attempts, created_at
        FROM rounds
        WHERE (? = '' OR difficulty = ?)
        ORDER BY score DESC, attempts ASC, created_at ASC
        LIMIT ?`, difficulty, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Round, 0, limit)
	for rows.Next() {
		var r Round
		var created string
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.PlayerName, &r.Difficulty, &r.Score, &r.Attempts, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonymous moves an anonymous player's rounds to a registered user.
func (s *Store) ClaimAnonymous(ctx context.Context, anonID, userID, username string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET player_id = ?, player_name = ? WHERE player_id = ?`, userID, username, anonID)
	return err
}
