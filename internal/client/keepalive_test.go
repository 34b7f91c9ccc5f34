package client

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodiq/melodiq/internal/testserver"
)

func (g *Game) leaseDeadline() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lease == nil {
		return time.Time{}, false
	}
	return g.lease.EndedAt, true
}

func TestKeepAliveExtendsLease(t *testing.T) {
	ts := testserver.New(t, "test-key")
	ts.SeedProfile(t, "kid-1", 1)

	c, err := New(ts.Server.URL, "test-key", "kid-1", slog.Default())
	require.NoError(t, err)
	game := NewGame(c, slog.Default())
	defer game.Close()

	_, err = game.EnsureActiveSession(context.Background())
	require.NoError(t, err)
	initial, ok := game.leaseDeadline()
	require.True(t, ok)

	ka := game.startKeepAlive(context.Background(), 20*time.Millisecond)
	defer ka.Stop()

	// Each refresh pushes the deadline two minutes past the last one.
	require.Eventually(t, func() bool {
		deadline, ok := game.leaseDeadline()
		return ok && deadline.After(initial.Add(time.Minute))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestKeepAliveDropsDeadLease(t *testing.T) {
	ts := testserver.New(t, "test-key")
	ts.SeedProfile(t, "kid-1", 1)

	c, err := New(ts.Server.URL, "test-key", "kid-1", slog.Default())
	require.NoError(t, err)
	game := NewGame(c, slog.Default())
	defer game.Close()

	sessionID, err := game.EnsureActiveSession(context.Background())
	require.NoError(t, err)
	ts.ExpireSession(t, sessionID)

	ka := game.startKeepAlive(context.Background(), 20*time.Millisecond)
	defer ka.Stop()

	require.Eventually(t, func() bool {
		_, ok := game.SessionID()
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestKeepAliveStop(t *testing.T) {
	ts := testserver.New(t, "test-key")
	ts.SeedProfile(t, "kid-1", 1)

	c, err := New(ts.Server.URL, "test-key", "kid-1", slog.Default())
	require.NoError(t, err)
	game := NewGame(c, slog.Default())

	_, err = game.EnsureActiveSession(context.Background())
	require.NoError(t, err)

	game.StartKeepAlive(context.Background())
	game.Close()

	// Stopped loop leaves the lease alone.
	_, ok := game.SessionID()
	assert.True(t, ok)
}
