package middleware

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

const (
	LocalSessionID = "session_id"
	LocalAccountID = "account_id"

	sessionLifetime = 24 * time.Hour
)

// SessionStore maps session ids to authenticated account ids. Bindings are
// created by the login flow and dropped on logout or account deletion.
type SessionStore struct {
	mu       sync.RWMutex
	bindings map[string]int64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		bindings: make(map[string]int64),
	}
}

func (s *SessionStore) Bind(sessionID string, accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[sessionID] = accountID
}

func (s *SessionStore) Lookup(sessionID string) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accountID, ok := s.bindings[sessionID]
	return accountID, ok
}

func (s *SessionStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.bindings, sessionID)
}

// ClearAccount drops every session bound to the account. Used when the
// account is deleted.
func (s *SessionStore) ClearAccount(accountID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, aid := range s.bindings {
		if aid == accountID {
			delete(s.bindings, sid)
		}
	}
}

// Session guarantees every request carries a session id cookie. The id keys
// challenge state and login bindings; it carries no authentication by itself.
func Session(cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(cookieName)
		if sessionID == "" || uuid.Validate(sessionID) != nil {
			sessionID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    sessionID,
				Expires:  time.Now().Add(sessionLifetime),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(LocalSessionID, sessionID)
		return c.Next()
	}
}

// RequireAuth rejects requests whose session has no account bound to it.
func RequireAuth(store *SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID, err := GetSessionID(c)
		if err != nil {
			return err
		}

		accountID, ok := store.Lookup(sessionID)
		if !ok {
			return domain.ErrUnauthorized
		}

		c.Locals(LocalAccountID, accountID)
		return c.Next()
	}
}

func GetSessionID(c *fiber.Ctx) (string, error) {
	sessionID, ok := c.Locals(LocalSessionID).(string)
	if !ok || sessionID == "" {
		return "", domain.ErrUnauthorized
	}
	return sessionID, nil
}

func GetAccountID(c *fiber.Ctx) (int64, error) {
	accountID, ok := c.Locals(LocalAccountID).(int64)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return accountID, nil
}
