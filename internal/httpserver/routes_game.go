// internal/httpserver/routes_game.go
//
// Calculator, schematic and free-play game routes.
//
//   - POST /circuit/compute   → equivalent value of one circuit
//   - GET  /circuit/schematic → SVG diagram of one circuit
//   - POST /game/new          → start a session (target drawn once)
//   - GET  /game/{id}         → session snapshot
//   - POST /game/guess        → score a circuit against the hidden target
//   - POST /game/reset        → record the round, draw a fresh target
//   - GET  /scores/top        → persisted best rounds

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/circuit"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/game"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/scores"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/store"
)

// circuitReq is the wire shape of a circuit. Values is a slice so that a
// wrong count is reported instead of silently zero-filled.
type circuitReq struct {
	Kind     string    `json:"kind"`
	Topology string    `json:"topology"`
	Values   []float64 `json:"values"`
}

func (c circuitReq) spec() (circuit.Spec, error) {
	k, err := circuit.ParseKind(c.Kind)
	if err != nil {
		return circuit.Spec{}, err
	}
	t, err := circuit.ParseTopology(c.Topology)
	if err != nil {
		return circuit.Spec{}, err
	}
	if len(c.Values) != 3 {
		return circuit.Spec{}, fmt.Errorf("exactly 3 values required, got %d", len(c.Values))
	}
	return circuit.Spec{Kind: k, Topology: t, Values: [3]float64(c.Values)}, nil
}

// writeCalcError maps calculator and game errors onto HTTP responses.
// It reports whether err was handled.
func writeCalcError(w http.ResponseWriter, err error) bool {
	var de *circuit.DomainError
	switch {
	case err == nil:
		return false
	case errors.As(err, &de):
		res := errorRes{Error: "domain_error", Message: circuit.ErrDomain.Error()}
		if de.Index >= 0 {
			i := de.Index
			res.Index = &i
		}
		writeJSON(w, http.StatusUnprocessableEntity, res)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, game.ErrNotStarted):
		writeError(w, http.StatusConflict, "not_started", err.Error())
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
	return true
}

// ------------------------------ CIRCUIT ------------------------------------

type computeReq struct {
	circuitReq
	Policy string `json:"policy"` // "strict" | "skip-zero"; empty uses server default
}

type computeRes struct {
	Total     float64 `json:"total"`
	Unit      string  `json:"unit"`
	Formatted string  `json:"formatted"`
	Policy    string  `json:"policy"`
}

// handleCompute evaluates one circuit without touching any session.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}
	spec, err := req.spec()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_circuit", err.Error())
		return
	}
	calc := s.calc
	switch req.Policy {
	case "":
	case circuit.Strict.String():
		calc.Policy = circuit.Strict
	case circuit.SkipZero.String():
		calc.Policy = circuit.SkipZero
	default:
		writeError(w, http.StatusBadRequest, "invalid_policy", req.Policy)
		return
	}
	total, err := calc.Total(spec)
	if writeCalcError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, computeRes{
		Total:     total,
		Unit:      spec.Kind.Unit(),
		Formatted: circuit.Format(spec.Kind, total),
		Policy:    calc.Policy.String(),
	})
}

// handleSchematic renders ?kind=&topology=&v=&v=&v= through the renderer.
func (s *Server) handleSchematic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := circuitReq{Kind: q.Get("kind"), Topology: q.Get("topology")}
	for _, raw := range q["v"] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_circuit", "bad value "+strconv.Quote(raw))
			return
		}
		req.Values = append(req.Values, v)
	}
	spec, err := req.spec()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_circuit", err.Error())
		return
	}
	img, err := s.renderer.Render(spec.Kind, spec.Topology, spec.Values)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("render schematic")
		writeError(w, http.StatusInternalServerError, "render_failed", "")
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Difficulty string `json:"difficulty"` // preset name; empty uses the default
}

type gameRes struct {
	game.Snapshot
	StartValues *[3]float64 `json:"startValues,omitempty"`
}

// handleNewGame creates an Active session for the caller.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	// an empty body starts the default difficulty
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", "")
		return
	}

	d, ok := s.presets.Lookup(req.Difficulty)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_difficulty", req.Difficulty)
		return
	}
	if n := s.store.Sweep(s.now(), sessionTTL); n > 0 {
		hlog.FromRequest(r).Debug().Int("swept", n).Msg("expired sessions removed")
	}

	pid, name := s.playerFor(w, r)
	sess := game.NewSession(uuid.NewString(), d, s.src)
	sess.PlayerID, sess.PlayerName = pid, name
	sess.Start()
	if err := s.store.Save(r.Context(), sess); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed", "")
		return
	}
	start := game.RandomValues(s.src, d.Values)
	hlog.FromRequest(r).Debug().Str("gameId", sess.ID).Str("difficulty", d.Name).Msg("game started")
	writeJSON(w, http.StatusOK, gameRes{Snapshot: sess.Snapshot(), StartValues: &start})
}

// handleGetGame returns the session snapshot.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	err := s.store.Update(r.Context(), chi.URLParam(r, "id"), func(sess *game.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	if writeCalcError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, gameRes{Snapshot: snap})
}

type guessReq struct {
	GameID string `json:"gameId"`
	circuitReq
	Guess *float64 `json:"guess"`
}

type guessRes struct {
	game.ScoreDelta
	Formatted string `json:"formatted"`
	Unit      string `json:"unit"`
	Feedback  string `json:"feedback"`
	Scoring   string `json:"scoring"`
}

func (req guessReq) decode(r *http.Request) (guessReq, circuit.Spec, error) {
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, circuit.Spec{}, errors.New("bad json")
	}
	if req.GameID == "" {
		return req, circuit.Spec{}, errors.New("gameId is required")
	}
	if req.Guess == nil {
		return req, circuit.Spec{}, errors.New("guess is required")
	}
	spec, err := req.spec()
	return req, spec, err
}

// handleGuess evaluates the submitted circuit and scores it against the
// session target. Daily sessions must use /daily/guess.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	req, spec, err := guessReq{}.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_guess", err.Error())
		return
	}
	var delta game.ScoreDelta
	err = s.store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		if sess.Daily != "" {
			return errDailySession
		}
		dl, evalErr := sess.Evaluate(s.calc, spec, *req.Guess)
		delta = dl
		return evalErr
	})
	if errors.Is(err, errDailySession) {
		writeError(w, http.StatusConflict, "daily_session", err.Error())
		return
	}
	if writeCalcError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, newGuessRes(spec.Kind, delta))
}

func newGuessRes(kind circuit.Kind, d game.ScoreDelta) guessRes {
	res := guessRes{
		ScoreDelta: d,
		Formatted:  circuit.Format(kind, d.Total),
		Unit:       kind.Unit(),
	}
	if d.Correct {
		res.Feedback = fmt.Sprintf("Correct! The total %s value is approximately %s.", kind, res.Formatted)
	} else {
		res.Feedback = fmt.Sprintf("Incorrect. The total %s value is approximately %s. Try again!", kind, res.Formatted)
	}
	if d.Exact {
		res.Scoring = fmt.Sprintf("Perfect match! +%d points", d.Points)
	} else {
		res.Scoring = fmt.Sprintf("Off target by %s, +%d points", circuit.FormatNumber(d.Difference), d.Points)
	}
	return res
}

type resetReq struct {
	GameID string `json:"gameId"`
}

type resetRes struct {
	gameRes
	Recorded *scores.Round `json:"recorded,omitempty"`
}

// handleReset ("Play Again") records the finished round when it had at
// least one attempt, then draws a fresh target.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid_reset", "gameId is required")
		return
	}

	var (
		finished *scores.Round
		snap     game.Snapshot
		start    [3]float64
	)
	err := s.store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		if sess.Daily != "" {
			return errDailySession
		}
		if sess.Attempts > 0 {
			finished = &scores.Round{
				PlayerID:   sess.PlayerID,
				PlayerName: sess.PlayerName,
				Difficulty: sess.Difficulty.Name,
				Score:      sess.Best,
				Attempts:   sess.BestAttempt,
			}
		}
		sess.Reset()
		snap = sess.Snapshot()
		start = game.RandomValues(s.src, sess.Difficulty.Values)
		return nil
	})
	if errors.Is(err, errDailySession) {
		writeError(w, http.StatusConflict, "daily_session", err.Error())
		return
	}
	if writeCalcError(w, err) {
		return
	}

	res := resetRes{gameRes: gameRes{Snapshot: snap, StartValues: &start}}
	if finished != nil && finished.PlayerID != "" {
		rec, err := s.scores.Record(r.Context(), *finished)
		if err != nil {
			// Best effort: the reset itself already happened.
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", req.GameID).Msg("record round")
		} else {
			res.Recorded = &rec
		}
	}
	writeJSON(w, http.StatusOK, res)
}

type topRes struct {
	Difficulty string         `json:"difficulty,omitempty"`
	Top        []scores.Round `json:"top"`
}

// handleTopScores returns persisted rounds, optionally for one difficulty.
func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")
	if difficulty != "" {
		d, ok := s.presets.Lookup(difficulty)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown_difficulty", difficulty)
			return
		}
		difficulty = d.Name
	}
	limit := min(max(queryInt(r, "limit", scores.DefaultLimit), 1), 100)
	top, err := s.scores.Top(r.Context(), difficulty, limit)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("top scores")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, topRes{Difficulty: difficulty, Top: top})
}
