// internal/httpserver/server.go
//
// HTTP server wiring for the Circuit Quest backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, panic recovery,
//     timeouts, JSON content type, CORS).
//   - Public endpoints: "/", "/health", "/meta".
//   - Calculator and schematic endpoints under /circuit.
//   - Game endpoints (optional auth) under /game and /scores.
//   - Daily Challenge endpoints (optional auth) under /daily.
//   - Auth + profile endpoints: /auth/*, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token
//     is present; guests play under an anonymous cookie.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/circuitquest/apps/go-server/internal/circuit"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/config"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/game"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/presets"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/schematic"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/scores"
	"github.com/robalobadob/circuitquest/apps/go-server/internal/store"
)

// sessionTTL is how long an untouched session is kept in memory.
const sessionTTL = 24 * time.Hour

// Server bundles router, session store, DB handle and game collaborators.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	store    store.Store
	db       *sql.DB
	scores   *scores.Store
	presets  *presets.Catalog
	calc     circuit.Calculator
	renderer schematic.Renderer
	src      game.Source
	now      func() time.Time
	daily    *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, st store.Store, db *sql.DB, catalog *presets.Catalog) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		store:    st,
		db:       db,
		scores:   scores.NewStore(db),
		presets:  catalog,
		renderer: schematic.SVG{},
		src:      game.DefaultSource,
		now:      time.Now,
	}
	if cfg.Game.SkipZero {
		s.calc.Policy = circuit.SkipZero
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(hlog.NewHandler(log.Logger))
	s.r.Use(hlog.AccessHandler(accessLog))
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "circuitquest-go",
			"endpoints": []string{"/health", "/meta", "POST /circuit/compute", "POST /game/new", "POST /game/guess", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "db_unavailable", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/meta", s.handleMeta)

	// Calculator + schematic: public, stateless
	s.r.Post("/circuit/compute", s.handleCompute)
	s.r.Get("/circuit/schematic", s.handleSchematic)

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Get("/game/{id}", s.handleGetGame)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/game/reset", s.handleReset)
		r.Get("/scores/top", s.handleTopScores)
		s.mountDaily(r)
	})

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", r.URL.Path)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
// Handlers serving other media types overwrite it.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg("request")
}

// ------------------------------- meta --------------------------------------

type kindInfo struct {
	Name circuit.Kind `json:"name"`
	Unit string       `json:"unit"`
}

type metaRes struct {
	Kinds             []kindInfo         `json:"kinds"`
	Topologies        []circuit.Topology `json:"topologies"`
	Difficulties      []game.Difficulty  `json:"difficulties"`
	DefaultDifficulty string             `json:"defaultDifficulty"`
	Policy            string             `json:"policy"`
	HintAfter         int                `json:"hintAfter"`
}

// handleMeta lists everything a client needs to build its controls.
func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	kinds := make([]kindInfo, 0, len(circuit.Kinds))
	for _, k := range circuit.Kinds {
		kinds = append(kinds, kindInfo{Name: k, Unit: k.Unit()})
	}
	writeJSON(w, http.StatusOK, metaRes{
		Kinds:             kinds,
		Topologies:        circuit.Topologies,
		Difficulties:      s.presets.All(),
		DefaultDifficulty: s.presets.Default().Name,
		Policy:            s.calc.Policy.String(),
		HintAfter:         game.HintAfter,
	})
}

// ------------------------------ helpers ------------------------------------

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorRes{Error: code, Message: msg})
}

// queryInt parses an integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
