// internal/game/session.go
//
// Scoring state machine for a single player session.
//
// Lifecycle:
//
//	Idle --Start--> Active --SubmitGuess--> Active
//	                Active --Reset--------> Active (fresh target)
//
// The target is drawn once by Start and again only by Reset. Reading the
// session or submitting guesses never redraws it. A session never returns
// to Idle.

package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/circuit"
)

// Source yields uniform samples in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// DefaultSource is the process-wide generator from math/rand.
// It is safe for concurrent use.
var DefaultSource Source = SourceFunc(rand.Float64)

// NewTarget samples uniformly from r and rounds to two decimals, so the
// value a hint shows is exactly the value being played against.
func NewTarget(src Source, r Range) float64 {
	v := circuit.Round2(r.Min + src.Float64()*(r.Max-r.Min))
	return math.Min(math.Max(v, r.Min), r.Max)
}

// RandomValues draws three starting component values within r.
func RandomValues(src Source, r Range) [3]float64 {
	var out [3]float64
	for i := range out {
		out[i] = NewTarget(src, r)
	}
	return out
}

// Session holds the state of one player's game.
type Session struct {
	ID          string      // Unique session identifier.
	PlayerID    string      // Owner: user ID or anonymous ID.
	PlayerName  string      // Display name for persisted scores (may be empty).
	Daily       string      // Date key for daily-challenge sessions; empty otherwise.
	Difficulty  Difficulty  // Slider and target ranges for this session.
	State       State       // Idle until Start.
	Target      float64     // Hidden value; meaningful only when Active.
	Attempts    int         // Guesses submitted since the last Start/Reset.
	Score       int         // Points accumulated since the last Start/Reset.
	Best        int         // Highest single-guess Points since the last Start/Reset.
	BestAttempt int         // Attempt on which Best was first reached; 0 before any guess.
	Leaderboard Leaderboard // Best cumulative scores seen in this session.
	CreatedAt   time.Time
	UpdatedAt   time.Time

	src Source
}

// NewSession returns an Idle session. A nil src uses DefaultSource.
func NewSession(id string, d Difficulty, src Source) *Session {
	if src == nil {
		src = DefaultSource
	}
	now := time.Now().UTC()
	return &Session{
		ID:          id,
		Difficulty:  d,
		State:       StateIdle,
		Leaderboard: Leaderboard{},
		CreatedAt:   now,
		UpdatedAt:   now,
		src:         src,
	}
}

// Start moves an Idle session to Active and draws its target.
// On an Active session it is a no-op returning the existing target.
func (s *Session) Start() float64 {
	if s.State == StateActive {
		return s.Target
	}
	s.Target = NewTarget(s.src, s.Difficulty.Target)
	s.State = StateActive
	s.UpdatedAt = time.Now().UTC()
	return s.Target
}

// StartWithTarget activates the session against a fixed target
// (daily challenge). An Active session keeps its target.
func (s *Session) StartWithTarget(target float64) {
	if s.State == StateActive {
		return
	}
	s.Target = target
	s.State = StateActive
	s.UpdatedAt = time.Now().UTC()
}

// Reset draws a fresh target and clears attempts and score. The session
// leaderboard survives a reset. An Idle session is started instead.
func (s *Session) Reset() float64 {
	if s.State == StateIdle {
		return s.Start()
	}
	s.Target = NewTarget(s.src, s.Difficulty.Target)
	s.Attempts = 0
	s.Score = 0
	s.Best, s.BestAttempt = 0, 0
	s.UpdatedAt = time.Now().UTC()
	return s.Target
}

// SubmitGuess scores one round.
//
// Two comparisons are made:
//   - trueTotal vs. Target: drives Points (scoring feedback).
//   - guess vs. trueTotal: drives Correct (did the player compute the
//     circuit right).
//
// Attempts always increases by exactly one on success.
func (s *Session) SubmitGuess(guess, trueTotal float64) (ScoreDelta, error) {
	if s.State != StateActive {
		return ScoreDelta{}, ErrNotStarted
	}
	if !finite(guess) || !finite(trueTotal) {
		return ScoreDelta{}, ErrInvalidGuess
	}

	diff := math.Abs(trueTotal - s.Target)
	points := Award(diff)

	s.Attempts++
	s.Score += points
	if points > s.Best {
		s.Best, s.BestAttempt = points, s.Attempts
	}
	s.Leaderboard = s.Leaderboard.Push(s.Score)
	s.UpdatedAt = time.Now().UTC()

	return ScoreDelta{
		Points:      points,
		Difference:  diff,
		Exact:       diff == 0,
		Progress:    float64(points) / MaxPoints,
		Guess:       guess,
		Total:       trueTotal,
		Correct:     IsCorrect(guess, trueTotal),
		GuessError:  math.Abs(guess - trueTotal),
		Attempts:    s.Attempts,
		Score:       s.Score,
		Best:        s.Best,
		Leaderboard: append([]int(nil), s.Leaderboard...),
		Hint:        s.Hint(),
	}, nil
}

// Evaluate computes the circuit total and submits guess against it.
// A circuit the calculator rejects does not count as an attempt.
func (s *Session) Evaluate(calc circuit.Calculator, spec circuit.Spec, guess float64) (ScoreDelta, error) {
	if s.State != StateActive {
		return ScoreDelta{}, ErrNotStarted
	}
	total, err := calc.Total(spec)
	if err != nil {
		return ScoreDelta{}, err
	}
	return s.SubmitGuess(guess, total)
}

// HintUnlocked reports whether enough attempts were made to reveal the target.
// Daily sessions share one target across players and never reveal it.
func (s *Session) HintUnlocked() bool {
	return s.State == StateActive && s.Daily == "" && s.Attempts >= HintAfter
}

// Hint returns the target reveal once unlocked, else "".
func (s *Session) Hint() string {
	if !s.HintUnlocked() {
		return ""
	}
	return "Hint: the target value is " + circuit.FormatNumber(s.Target)
}

// Snapshot returns the client view of s.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:          s.ID,
		Difficulty:  s.Difficulty.Name,
		Daily:       s.Daily,
		Values:      s.Difficulty.Values,
		State:       s.State,
		Attempts:    s.Attempts,
		Score:       s.Score,
		Best:        s.Best,
		Leaderboard: append([]int{}, s.Leaderboard...),
		Hint:        s.Hint(),
	}
	if s.HintUnlocked() {
		t := s.Target
		snap.Target = &t
	}
	return snap
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
