package storefront_test

import (
	"sync"
	"testing"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/internal/storefront"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func admin() storefront.SessionUser {
	return storefront.SessionUser{ID: "u1", Name: "Admin", Role: models.RoleAdmin}
}

func TestGateActiveWithinTimeout(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(admin())

	clock.Advance(29 * time.Minute)
	assert.Equal(t, storefront.GateActive, gate.State())
}

func TestGateExpiresAfterInactivity(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(admin())

	clock.Advance(31 * time.Minute)
	assert.Equal(t, storefront.GateExpired, gate.State())

	_, ok := gate.User()
	assert.False(t, ok)
}

func TestGateUserExpiresInOneCall(t *testing.T) {
	clock := newFakeClock()
	expired := make(chan string, 1)
	gate := storefront.NewAuthGate(30*time.Minute,
		storefront.WithClock(clock.Now),
		storefront.WithExpireHandler(func(msg string) { expired <- msg }))
	gate.Login(admin())

	u, ok := gate.User()
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID)

	// Past the deadline, a single User call both reports the miss and
	// retires the session.
	clock.Advance(31 * time.Minute)
	_, ok = gate.User()
	assert.False(t, ok)
	assert.Equal(t, storefront.GateExpired, gate.State())

	select {
	case msg := <-expired:
		assert.Equal(t, storefront.SessionExpiredMessage, msg)
	case <-time.After(time.Second):
		t.Fatal("expire handler never ran")
	}
}

func TestGateTouchResetsTimer(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(admin())

	// Activity every 20 minutes keeps the session alive well past the
	// bare timeout.
	for i := 0; i < 4; i++ {
		clock.Advance(20 * time.Minute)
		gate.Touch()
		require.Equal(t, storefront.GateActive, gate.State())
	}
}

func TestGateTouchCannotResurrectExpiredSession(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(admin())

	clock.Advance(45 * time.Minute)
	gate.Touch()
	assert.Equal(t, storefront.GateExpired, gate.State())
}

func TestGateLogoutClearsSession(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(admin())

	gate.Logout()
	assert.Equal(t, storefront.GateExpired, gate.State())
}

func TestGateGuardRedirectsExpiredToLogin(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(admin())
	clock.Advance(time.Hour)

	d := gate.Guard()
	assert.False(t, d.Allow)
	assert.Equal(t, storefront.LoginRoute, d.RedirectTo)
	assert.Equal(t, storefront.SessionExpiredMessage, d.Message)
}

func TestGateGuardAdminRejectsNonAdmin(t *testing.T) {
	clock := newFakeClock()
	gate := storefront.NewAuthGate(30*time.Minute, storefront.WithClock(clock.Now))
	gate.Login(storefront.SessionUser{ID: "u2", Name: "Shopper", Role: models.RoleUser})

	d := gate.GuardAdmin()
	assert.False(t, d.Allow)
	assert.Equal(t, storefront.LoginRoute, d.RedirectTo)

	gate.Login(admin())
	assert.True(t, gate.GuardAdmin().Allow)
}
