package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"github.com/spec-kit/process-desk/internal/auth"
)

const (
	// CookieName carries the browser session id.
	CookieName = "sid"
	localsKey  = "session"
	stateKey   = "state"
)

// Manager loads and persists sessions around each request.
type Manager struct {
	store  *fibersession.Store
	tokens *auth.TokenManager
	logger *zap.Logger
	now    func() time.Time
}

// NewManager wires a session storage with the login token validator. A nil
// storage keeps sessions in fiber's in-memory storage, which drops expired
// entries on its own.
func NewManager(storage fiber.Storage, tokens *auth.TokenManager, ttl time.Duration, secure bool, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := fibersession.New(fibersession.Config{
		Storage:           storage,
		Expiration:        ttl,
		KeyLookup:         "cookie:" + CookieName,
		CookiePath:        "/",
		CookieSecure:      secure,
		CookieHTTPOnly:    true,
		CookieSameSite:    fiber.CookieSameSiteLaxMode,
		CookieSessionOnly: true,
	})
	return &Manager{
		store:  store,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Middleware attaches a Session to the request. A session that is not
// authenticated but carries a valid login cookie is signed in from the
// token alone, without touching the user table.
//
// State is written back even when a later handler panics, so the panic is
// re-raised only after the session is persisted.
func (m *Manager) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := m.load(c)

		if !sess.State.Authenticated {
			if raw := auth.LoginToken(c); raw != "" {
				claims, err := m.tokens.ParseToken(raw)
				if err != nil {
					m.logger.Warn("login token rejected", zap.Error(err))
				} else {
					sess.State.SignIn(claims.Username)
					m.logger.Info("session restored from login token", zap.String("username", claims.Username))
				}
			}
		}

		c.Locals(localsKey, sess)

		defer func() {
			if r := recover(); r != nil {
				m.persist(sess)
				panic(r)
			}
		}()

		err := c.Next()
		m.persist(sess)
		return err
	}
}

func (m *Manager) load(c *fiber.Ctx) *Session {
	raw, err := m.store.Get(c)
	if err != nil {
		m.logger.Warn("failed to load session", zap.Error(err))
		return &Session{}
	}

	sess := &Session{raw: raw}
	if encoded, ok := raw.Get(stateKey).(string); ok {
		if err := json.Unmarshal([]byte(encoded), &sess.State); err != nil {
			m.logger.Warn("discarding unreadable session state", zap.Error(err))
		}
	}
	sess.initial = m.encode(sess)
	return sess
}

func (m *Manager) encode(sess *Session) string {
	encoded, err := json.Marshal(sess.State)
	if err != nil {
		m.logger.Warn("failed to encode session", zap.Error(err))
		return ""
	}
	return string(encoded)
}

// persist writes the state back. A fresh session that nothing changed is
// not stored and gets no cookie, so anonymous traffic leaves no trace.
func (m *Manager) persist(sess *Session) {
	if sess.raw == nil {
		return
	}

	if sess.destroyed {
		if err := sess.raw.Destroy(); err != nil {
			m.logger.Warn("failed to delete session", zap.Error(err))
		}
		return
	}

	encoded := m.encode(sess)
	if sess.raw.Fresh() && !sess.renew && encoded == sess.initial {
		return
	}

	if sess.renew {
		if err := sess.raw.Regenerate(); err != nil {
			m.logger.Warn("failed to regenerate session id", zap.Error(err))
		}
	}
	sess.raw.Set(stateKey, encoded)
	if err := sess.raw.Save(); err != nil {
		m.logger.Warn("failed to save session", zap.Error(err))
	}
	sess.raw = nil
}

// FromContext returns the session attached by Middleware. Handlers mounted
// without the middleware get a throwaway session.
func FromContext(c *fiber.Ctx) *Session {
	if sess, ok := c.Locals(localsKey).(*Session); ok && sess != nil {
		return sess
	}
	return &Session{}
}

// RequireLogin redirects unauthenticated requests to the login page.
func (m *Manager) RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := FromContext(c)
		if !sess.State.Authenticated {
			return c.Redirect("/login", fiber.StatusSeeOther)
		}
		sess.State.LastActivity = m.now().UTC()
		return c.Next()
	}
}
