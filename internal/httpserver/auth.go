package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"
)

var errUsernameTaken = errors.New("username taken")

// Request payloads for signup/login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

func userFrom(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, userFrom(r.Context()))
	})

	s.r.With(s.requireAuth()).Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
		u, err := s.findUserByID(r.Context(), userFrom(r.Context()).ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "not_found", "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":           u.ID,
			"roundsPlayed": u.RoundsPlayed,
			"bestScore":    u.BestScore,
		})
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	if errors.Is(err, errUsernameTaken) {
		writeError(w, http.StatusConflict, "username_taken", "Username taken")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_signup", err.Error())
		return
	}
	if !s.issueToken(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "")
		return
	}
	u, err := s.findUserByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}
	if !s.issueToken(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cfg.Auth.CookieName, "", time.Time{}, -1)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// issueToken signs a JWT for u, sets the cookie and moves the caller's
// anonymous rounds onto the account. It writes the error response itself.
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, u *userRow) bool {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return false
	}
	s.setCookie(w, s.cfg.Auth.CookieName, tok, exp, 0)
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		if err := s.scores.ClaimAnonymous(r.Context(), c.Value, u.ID, u.Username); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("claim anon rounds")
		}
	}
	return true
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, err := s.userFromToken(r); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := s.userFromToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, u)))
		})
	}
}

// userFromToken validates the bearer/cookie token and checks the user still exists.
func (s *Server) userFromToken(r *http.Request) (*authUser, error) {
	tokenStr := s.bearerOrCookie(r)
	if tokenStr == "" {
		return nil, errors.New("missing token")
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil, errors.New("invalid token")
	}
	u, err := s.findUserByID(r.Context(), id)
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return &authUser{ID: u.ID, Username: u.Username}, nil
}

const anonCookieName = "circuitquest_anon"

// playerFor returns the identity scores are recorded under: the signed-in
// user, or a stable anonymous cookie ID for guests.
func (s *Server) playerFor(w http.ResponseWriter, r *http.Request) (id, name string) {
	if me := userFrom(r.Context()); me != nil {
		return me.ID, me.Username
	}
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value, ""
	}
	id = uuid.NewString()
	s.setCookie(w, anonCookieName, id, s.now().Add(180*24*time.Hour), 0)
	return id, ""
}

// ------------------------ auth helpers & users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	RoundsPlayed int
	BestScore    int
}

// createUser validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &userRow{ID: uuid.NewString(), Username: username, PasswordHash: string(h), CreatedAt: s.now().UTC().Truncate(time.Second)}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, err
	}
	return u, nil
}

// findUserByUsername/ID load a user row or return an error if missing.
func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_played, best_score
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}
func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, rounds_played, best_score
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a userRow.
func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.RoundsPlayed, &u.BestScore); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 72 {
		return errors.New("password must be 8–72 chars")
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(time.Duration(s.cfg.Auth.ExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Auth.JWTSecret))
	return ss, exp, err
}

// setCookie writes an HttpOnly cookie; maxAge < 0 deletes it.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time, maxAge int) {
	secure := s.cfg.Production()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.Auth.CookieName); err == nil {
		return c.Value
	}
	return ""
}
