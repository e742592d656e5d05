// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's daily session
//   - POST /daily/guess       → submit a circuit for today's daily session
//   - GET  /daily/leaderboard → top results for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same target and starting values on the same UTC
// day, derived from date + salt. Sessions live in the shared session store;
// the best score per player and day is persisted after every guess.

package httpserver

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/daily"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/game"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/store"
)

var errDailySession = errors.New("daily sessions are played through /daily")

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	salt     string
	day      string            // date key the sessions map belongs to
	sessions map[string]string // today's session IDs keyed by player ID
	mu       sync.Mutex        // guards day and sessions
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.Game.DailySalt,
		sessions: make(map[string]string),
	}
	s.daily = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// today returns the current UTC day and its date key.
func (d *dailyServer) today() (time.Time, string) {
	now := d.srv.now().UTC()
	return now, daily.DateKey(now)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	game.Snapshot
	Date        string        `json:"date"`
	StartValues [3]float64    `json:"startValues"`
	DayBest     *daily.Result `json:"dayBest,omitempty"`
}

// handleNew returns the caller's session for today, creating it on first
// call. The previous best for today, if any, is included.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid, name := d.srv.playerFor(w, r)
	now, date := d.today()
	diff := d.srv.presets.Default()

	var snap game.Snapshot

	d.mu.Lock()
	if d.day != date {
		// yesterday's sessions can no longer be guessed; drop their index
		clear(d.sessions)
		d.day = date
	}
	id, ok := d.sessions[pid]
	if ok {
		err := d.srv.store.Update(r.Context(), id, func(sess *game.Session) error {
			snap = sess.Snapshot()
			return nil
		})
		// swept or otherwise gone: start over below
		ok = err == nil
	}
	if !ok {
		sess := game.NewSession(uuid.NewString(), diff, d.srv.src)
		sess.PlayerID, sess.PlayerName = pid, name
		sess.Daily = date
		sess.StartWithTarget(daily.Target(now, d.salt, diff.Target))
		if err := d.srv.store.Save(r.Context(), sess); err != nil {
			d.mu.Unlock()
			hlog.FromRequest(r).Error().Err(err).Msg("save daily session")
			writeError(w, http.StatusInternalServerError, "save_failed", "")
			return
		}
		d.sessions[pid] = sess.ID
		snap = sess.Snapshot()
	}
	d.mu.Unlock()

	res := dailyNewRes{
		Snapshot:    snap,
		Date:        date,
		StartValues: daily.Values(now, d.salt, diff.Values),
	}
	if best, found, err := d.store.Best(r.Context(), pid, date); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("load daily best")
	} else if found {
		res.DayBest = &best
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess scores a circuit against today's target and keeps the
// player's best result for the day.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	req, spec, err := guessReq{}.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_guess", err.Error())
		return
	}
	_, date := d.today()

	var (
		delta  game.ScoreDelta
		result daily.Result
	)
	err = d.srv.store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		if sess.Daily == "" {
			return store.ErrNotFound
		}
		if sess.Daily != date {
			return errDailyExpired
		}
		dl, evalErr := sess.Evaluate(d.srv.calc, spec, *req.Guess)
		if evalErr != nil {
			return evalErr
		}
		delta = dl
		result = daily.Result{
			PlayerID:   sess.PlayerID,
			PlayerName: sess.PlayerName,
			Date:       sess.Daily,
			Score:      sess.Best,
			Attempts:   sess.BestAttempt,
		}
		return nil
	})
	if errors.Is(err, errDailyExpired) {
		writeError(w, http.StatusConflict, "daily_expired", err.Error())
		return
	}
	if writeCalcError(w, err) {
		return
	}

	if err := d.store.Upsert(r.Context(), result); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("date", date).Msg("store daily result")
	}
	writeJSON(w, http.StatusOK, newGuessRes(spec.Kind, delta))
}

var errDailyExpired = errors.New("daily challenge has rolled over; start a new one")

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string         `json:"date"`
	Top  []daily.Result `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		_, date = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", date)
		return
	}
	limit := min(max(queryInt(r, "limit", 20), 1), 100)
	rows, err := d.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
