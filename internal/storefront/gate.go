package storefront

import (
	"sync"
	"time"

	"github.com/fashionhub/storefront/app/models"
)

// LoginRoute is where the gate sends unauthenticated or expired sessions.
const LoginRoute = "/login"

// SessionExpiredMessage explains the redirect after an inactivity timeout.
const SessionExpiredMessage = "Your session has expired due to inactivity. Please log in again."

// GateState is the session machine's state.
type GateState string

const (
	GateActive  GateState = "active"
	GateExpired GateState = "expired"
)

// SessionUser is the signed-in identity the gate tracks.
type SessionUser struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

// Decision is the gate's answer to a route request.
type Decision struct {
	Allow      bool
	RedirectTo string
	Message    string
}

// AuthGate is the client-side route guard: a two-state timeout machine.
// A qualifying user interaction resets the single inactivity timer; the
// only ways out of "active" are explicit logout or the timer firing.
type AuthGate struct {
	mu       sync.Mutex
	user     *SessionUser
	deadline time.Time
	timeout  time.Duration
	now      func() time.Time
	timer    *time.Timer
	onExpire func(message string)
}

// GateOption configures an AuthGate.
type GateOption func(*AuthGate)

// WithClock injects the time source used for deadline checks.
func WithClock(now func() time.Time) GateOption {
	return func(g *AuthGate) { g.now = now }
}

// WithExpireHandler sets the callback run when the session times out.
func WithExpireHandler(fn func(message string)) GateOption {
	return func(g *AuthGate) { g.onExpire = fn }
}

// NewAuthGate creates a gate with the given inactivity timeout.
func NewAuthGate(timeout time.Duration, opts ...GateOption) *AuthGate {
	g := &AuthGate{
		timeout: timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login installs the user and starts the inactivity timer.
func (g *AuthGate) Login(u SessionUser) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = &u
	g.resetTimer()
}

// Logout clears the session immediately.
func (g *AuthGate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clear()
}

// Touch records a qualifying user interaction, replacing the timer.
// Touching an expired or signed-out session does nothing; activity does
// not resurrect a dead session.
func (g *AuthGate) Touch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return
	}
	if g.now().After(g.deadline) {
		g.expire()
		return
	}
	g.resetTimer()
}

// State reports the machine state, expiring the session on the spot if
// the deadline has passed.
func (g *AuthGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return GateExpired
	}
	if g.now().After(g.deadline) {
		g.expire()
		return GateExpired
	}
	return GateActive
}

// User returns the signed-in user while the session is active. The expiry
// check and the read happen under one lock, so the answer is a single
// consistent snapshot.
func (g *AuthGate) User() (SessionUser, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil {
		return SessionUser{}, false
	}
	if g.now().After(g.deadline) {
		g.expire()
		return SessionUser{}, false
	}
	return *g.user, true
}

// Guard answers a plain authenticated-route request.
func (g *AuthGate) Guard() Decision {
	if g.State() != GateActive {
		return Decision{RedirectTo: LoginRoute, Message: SessionExpiredMessage}
	}
	return Decision{Allow: true}
}

// GuardAdmin answers an admin-route request. A signed-in non-admin is
// sent to the login boundary just like an expired session.
func (g *AuthGate) GuardAdmin() Decision {
	user, ok := g.User()
	if !ok {
		return Decision{RedirectTo: LoginRoute, Message: SessionExpiredMessage}
	}
	if user.Role != models.RoleAdmin {
		return Decision{RedirectTo: LoginRoute, Message: "Administrator access required."}
	}
	return Decision{Allow: true}
}

// resetTimer replaces the single inactivity timer. Caller holds the lock.
func (g *AuthGate) resetTimer() {
	g.deadline = g.now().Add(g.timeout)
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.timeout, g.checkExpiry)
}

func (g *AuthGate) checkExpiry() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user != nil && g.now().After(g.deadline) {
		g.expire()
	}
}

// expire clears the session and notifies. Caller holds the lock.
func (g *AuthGate) expire() {
	g.clear()
	if g.onExpire != nil {
		go g.onExpire(SessionExpiredMessage)
	}
}

func (g *AuthGate) clear() {
	g.user = nil
	g.deadline = time.Time{}
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
