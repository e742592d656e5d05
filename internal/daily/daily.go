package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Target returns the deterministic target for a date: HMAC(salt, YYYY-MM-DD)
// mapped uniformly into r and rounded to two decimals. Every player sees the
// same target on the same day.
func Target(date time.Time, salt string, r game.Range) float64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// top 53 bits give an exact float64 fraction in [0, 1)
	n := binary.BigEndian.Uint64(sum[:8]) >> 11
	frac := float64(n) / (1 << 53)
	return game.NewTarget(game.SourceFunc(func() float64 { return frac }), r)
}

// Values returns the deterministic starting component values for a date.
func Values(date time.Time, salt string, r game.Range) [3]float64 {
	var out [3]float64
	for i := range out {
		out[i] = Target(date, salt+"|v"+string(rune('1'+i)), r)
	}
	return out
}
