package client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/melodiq/melodiq/internal/domain/gamesession"
)

// KeepAlive periodically refreshes the session lease so it outlives the
// ticker interval as long as the player stays on the page.
type KeepAlive struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartKeepAlive launches a refresh loop on the game's lease at the
// standard extension interval. Only one loop runs per Game; starting
// again replaces the previous one.
func (g *Game) StartKeepAlive(ctx context.Context) *KeepAlive {
	return g.startKeepAlive(ctx, gamesession.RefreshExtension)
}

func (g *Game) startKeepAlive(ctx context.Context, interval time.Duration) *KeepAlive {
	ctx, cancel := context.WithCancel(ctx)
	ka := &KeepAlive{cancel: cancel, done: make(chan struct{})}

	g.mu.Lock()
	if prev := g.keepAlive; prev != nil {
		defer prev.Stop()
	}
	g.keepAlive = ka
	g.mu.Unlock()

	go func() {
		defer close(ka.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.refreshLease(ctx)
			}
		}
	}()
	return ka
}

// refreshLease extends the current lease, retrying transient transport
// failures with exponential backoff. A lease the server rejects is
// forgotten rather than retried.
func (g *Game) refreshLease(ctx context.Context) {
	g.mu.Lock()
	lease := g.lease
	g.mu.Unlock()
	if lease == nil {
		return
	}

	operation := func() error {
		refreshed, err := g.client.RefreshSession(ctx, lease.SessionID)
		if err != nil {
			if LeaseDead(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		g.mu.Lock()
		if g.lease != nil && g.lease.SessionID == refreshed.SessionID {
			g.lease = refreshed
		}
		g.mu.Unlock()
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if LeaseDead(err) {
			g.mu.Lock()
			if g.lease != nil && g.lease.SessionID == lease.SessionID {
				g.lease = nil
			}
			g.mu.Unlock()
			g.logger.Info("session lease lost", "session_id", lease.SessionID)
			return
		}
		g.logger.Warn("lease refresh failed", "session_id", lease.SessionID, "error", err)
	}
}

// Stop cancels the loop and waits for it to exit.
func (ka *KeepAlive) Stop() {
	ka.cancel()
	<-ka.done
}
