package game

import (
	"cmp"
	"math"
	"slices"
)

const (
	MaxPoints = 100 // awarded for an exact hit
	MinPoints = 1   // floor for any guess, however far off

	// LeaderboardSize is how many scores a session keeps.
	LeaderboardSize = 5

	// HintAfter is the attempt count at which the target is revealed.
	HintAfter = 3

	// CorrectTolerance is how close a numeric guess must be to the real total.
	CorrectTolerance = 0.1
)

// Award converts the distance between circuit total and target into points:
// MaxPoints for an exact match, otherwise MaxPoints - floor(difference),
// never below MinPoints.
func Award(difference float64) int {
	difference = math.Abs(difference)
	if difference == 0 {
		return MaxPoints
	}
	if difference >= MaxPoints || math.IsNaN(difference) {
		return MinPoints
	}
	return max(MinPoints, MaxPoints-int(math.Floor(difference)))
}

// IsCorrect reports whether guess is within CorrectTolerance of total.
func IsCorrect(guess, total float64) bool {
	return math.Abs(guess-total) < CorrectTolerance
}

// Leaderboard holds the best LeaderboardSize scores, highest first.
type Leaderboard []int

// Push returns a new leaderboard with score inserted, sorted descending
// and truncated. The receiver is not modified.
func (l Leaderboard) Push(score int) Leaderboard {
	out := make(Leaderboard, 0, len(l)+1)
	out = append(out, l...)
	out = append(out, score)
	slices.SortFunc(out, func(a, b int) int { return cmp.Compare(b, a) })
	if len(out) > LeaderboardSize {
		out = out[:LeaderboardSize]
	}
	return out
}

// Best returns the highest score, or 0 when empty.
func (l Leaderboard) Best() int {
	if len(l) == 0 {
		return 0
	}
	return l[0]
}
