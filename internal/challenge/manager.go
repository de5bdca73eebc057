// Package challenge owns the OTP confirmation state machine. Each session
// holds at most one pending challenge per flow type; the lifecycle is
// NONE → PENDING → (CONSUMED | EXPIRED) → NONE, with consumption and expiry
// both erasing the entry.
package challenge

import (
	"sync"
	"time"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/otp"
)

// DefaultTTL bounds how long an issued code stays verifiable.
const DefaultTTL = 10 * time.Minute

type key struct {
	sessionID string
	flow      domain.FlowType
}

// Manager keeps in-flight challenges keyed by (session id, flow type).
// State is per-session and single-writer; the mutex only guards the map
// against concurrent sessions. Expiry is checked at verification time, not
// by live timers; the janitor merely evicts abandoned entries.
type Manager struct {
	mu         sync.Mutex
	challenges map[key]*domain.Challenge
	ttl        time.Duration
	now        func() time.Time
	done       chan struct{}
}

// NewManager creates a challenge manager and starts its cleanup goroutine.
// Call Stop when shutting down.
func NewManager(ttl time.Duration) *Manager {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	m := &Manager{
		challenges: make(map[key]*domain.Challenge),
		ttl:        ttl,
		now:        time.Now,
		done:       make(chan struct{}),
	}

	go m.janitor()

	return m
}

// Stop shuts down the cleanup goroutine.
func (m *Manager) Stop() {
	close(m.done)
}

// Start issues a new challenge for the given session and flow, replacing
// any prior pending challenge of the same flow type (no stacking). The
// plaintext code is returned exactly once, for email delivery; only its
// hash is retained.
func (m *Manager) Start(sessionID string, flow domain.FlowType, payload domain.ChallengePayload) (string, error) {
	code, err := otp.Generate()
	if err != nil {
		return "", err
	}

	hash, err := otp.Hash(code)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges[key{sessionID, flow}] = &domain.Challenge{
		FlowType:  flow,
		OTPHash:   hash,
		ExpiresAt: m.now().Add(m.ttl),
		Payload:   payload,
	}

	return code, nil
}

// Verify resolves a pending challenge:
//   - no pending state → domain.ErrNoChallenge, caller must restart the flow
//   - past expiry → domain.ErrOTPExpired and the pending state is cleared,
//     even when the supplied code is correct
//   - hash mismatch → domain.ErrOTPMismatch, state stays PENDING and the
//     caller may retry until expiry
//   - match → the challenge is consumed (erased) and its payload returned
func (m *Manager) Verify(sessionID string, flow domain.FlowType, code string) (domain.ChallengePayload, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{sessionID, flow}
	ch, ok := m.challenges[k]
	if !ok {
		return domain.ChallengePayload{}, domain.ErrNoChallenge
	}

	if ch.Expired(m.now()) {
		delete(m.challenges, k)
		return domain.ChallengePayload{}, domain.ErrOTPExpired
	}

	if !otp.Verify(code, ch.OTPHash) {
		return domain.ChallengePayload{}, domain.ErrOTPMismatch
	}

	delete(m.challenges, k)
	return ch.Payload, nil
}

// Cancel discards any pending challenge for the session and flow, e.g. on
// logout or session teardown.
func (m *Manager) Cancel(sessionID string, flow domain.FlowType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.challenges, key{sessionID, flow})
}

// janitor evicts expired challenges that were never verified, so abandoned
// sessions do not pin payloads (pending face images) in memory.
func (m *Manager) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			now := m.now()
			for k, ch := range m.challenges {
				if ch.Expired(now) {
					delete(m.challenges, k)
				}
			}
			m.mu.Unlock()
		}
	}
}
