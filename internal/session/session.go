// Package session keeps per-browser state between requests.
//
// A Session is loaded by Manager.Middleware at the start of each request,
// handed to handlers through fiber locals and written back when the handler
// returns. Storage, expiry and the session cookie are handled by fiber's
// session middleware; this package adds the typed state on top of it.
package session

import (
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/spec-kit/process-desk/internal/domain"
)

// Session is the state of one browser session for the current request.
type Session struct {
	State domain.SessionState

	raw       *fibersession.Session
	initial   string
	renew     bool
	destroyed bool
}

// Destroy clears the state and drops the server-side record when the
// request finishes.
func (s *Session) Destroy() {
	s.State.Clear()
	s.destroyed = true
}

// Destroyed reports whether Destroy was called during this request.
func (s *Session) Destroyed() bool {
	return s.destroyed
}

// Renew moves the state to a fresh id when the request finishes. Called on
// login so an id handed out before authentication never becomes an
// authenticated one.
func (s *Session) Renew() {
	s.renew = true
}
