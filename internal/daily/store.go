package daily

import (
	"context"
	"database/sql"
)

// Result is a player's best guess for one date: Score is the best
// single-guess points and Attempts the guesses it took to get there.
type Result struct {
	PlayerID   string `json:"-"`
	PlayerName string `json:"playerName"`
	Date       string `json:"date"`
	Score      int    `json:"score"`
	Attempts   int    `json:"attempts"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Best returns the stored result for (player, date), or ok=false.
func (s *Store) Best(ctx context.Context, playerID, date string) (Result, bool, error) {
	r := Result{PlayerID: playerID, Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT player_name, score, attempts FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&r.PlayerName, &r.Score, &r.Attempts)
	if err == sql.ErrNoRows {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	return r, true, nil
}

// Upsert stores r, keeping only the better of the existing and new result
// (higher score, then fewer attempts).
func (s *Store) Upsert(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO daily_results (player_id, player_name, date, score, attempts)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (player_id, date) DO UPDATE SET
    player_name = excluded.player_name,
    score       = excluded.score,
    attempts    = excluded.attempts
WHERE excluded.score > daily_results.score
   OR (excluded.score = daily_results.score AND excluded.attempts < daily_results.attempts)`,
		r.PlayerID, r.PlayerName, r.Date, r.Score, r.Attempts,
	)
	return err
}

// Leaderboard returns the top results for a date.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT player_id, player_name, score, attempts
FROM daily_results
WHERE date=?
ORDER BY score DESC, attempts ASC, created_at ASC
LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		r := Result{Date: date}
		if err := rows.Scan(&r.PlayerID, &r.PlayerName, &r.Score, &r.Attempts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
