package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const DefaultCookieName = "careportal.sid"

var errInvalidToken = errors.New("invalid session token")

type Config struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Manager binds sessions in a Store to browser cookies. The cookie carries an
// HS256 token whose only claim of interest is the session id.
type Manager struct {
	store      Store
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewManager(store Store, cfg Config) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Manager{
		store:      store,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
	}
}

// Ping checks the backing store when it is remote. In-process stores are
// always ready.
func (m *Manager) Ping(ctx context.Context) error {
	if p, ok := m.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Load returns the session named by the request cookie. A missing, forged,
// expired or unknown cookie yields a new anonymous session that has not been
// saved yet.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return New()
	}

	id, err := m.parseToken(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("discarding session cookie")
		return New()
	}

	sess, err := m.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error().Err(err).Str("session_id", id).Msg("failed to load session")
		}
		return New()
	}
	return sess
}

// Save persists sess and refreshes the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return err
	}

	token, err := m.signToken(sess.ID)
	if err != nil {
		return fmt.Errorf("failed to sign session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Regenerate moves the session state to a new id and drops the old entry.
func (m *Manager) Regenerate(ctx context.Context, sess *Session) (*Session, error) {
	fresh := New()
	fresh.UserID = sess.UserID
	fresh.Flash = append([]string(nil), sess.Flash...)

	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Destroy removes sess from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) signToken(sessionID string) (string, error) {
	now := time.Now()
	claims := cookieClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parseToken(value string) (string, error) {
	var claims cookieClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	if claims.SessionID == "" {
		return "", errInvalidToken
	}
	return claims.SessionID, nil
}
