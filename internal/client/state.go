package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/melodiq/melodiq/internal/domain/task"
)

// ErrSubmitInFlight is returned when a submission is already on the
// wire. Double-taps must not burn attempts.
var ErrSubmitInFlight = errors.New("submission already in flight")

// ErrNoTask is returned when an operation needs an open task and none
// is loaded.
var ErrNoTask = errors.New("no task loaded")

// Game drives one player's play loop: it holds the session lease, the
// current puzzle, and the answer the player is building. All methods
// are safe for concurrent use; the server response is authoritative and
// local state is reconciled from it.
type Game struct {
	client *Client
	logger *slog.Logger

	mu           sync.Mutex
	lease        *Lease
	puzzle       *Puzzle
	answer       []string
	attemptsLeft int
	level        int
	totalScore   int
	submitting   bool
	keepAlive    *KeepAlive
}

// NewGame creates a Game controller over the given API client.
func NewGame(c *Client, logger *slog.Logger) *Game {
	if logger == nil {
		logger = slog.Default()
	}
	return &Game{client: c, logger: logger}
}

// EnsureActiveSession returns a live session id, reusing the in-memory
// lease, then the lease cookie, and only then starting a fresh session.
// A session id recovered from the cookie is validated (and its deadline
// learned) with a refresh before it is trusted.
func (g *Game) EnsureActiveSession(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ensureSessionLocked(ctx)
}

func (g *Game) ensureSessionLocked(ctx context.Context) (string, error) {
	if g.lease != nil && time.Now().Before(g.lease.EndedAt) {
		return g.lease.SessionID, nil
	}
	g.lease = nil

	if sessionID, ok := g.client.SessionCookie(); ok {
		lease, err := g.client.RefreshSession(ctx, sessionID)
		switch {
		case err == nil:
			g.lease = lease
			return lease.SessionID, nil
		case LeaseDead(err):
			g.logger.Debug("cookie lease dead, starting fresh", "session_id", sessionID)
		default:
			return "", fmt.Errorf("validating cookie lease: %w", err)
		}
	}

	lease, err := g.client.StartSession(ctx)
	if err != nil {
		return "", fmt.Errorf("starting session: %w", err)
	}
	g.lease = lease
	return lease.SessionID, nil
}

// LoadCurrentOrNextTask ensures a live session, then loads the open
// task or a fresh one. The answer buffer is reset.
func (g *Game) LoadCurrentOrNextTask(ctx context.Context) (*Puzzle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.ensureSessionLocked(ctx); err != nil {
		return nil, err
	}

	puzzle, err := g.client.NextTask(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}

	g.puzzle = puzzle
	g.answer = g.answer[:0]
	g.attemptsLeft = task.MaxAttempts - puzzle.AttemptsUsed
	g.level = puzzle.LevelID
	return puzzle, nil
}

// AddNote appends a note to the answer under construction. It reports
// false when no task is loaded or the answer is already full.
func (g *Game) AddNote(note string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.puzzle == nil || len(g.answer) >= g.puzzle.ExpectedSlots {
		return false
	}
	g.answer = append(g.answer, note)
	return true
}

// RemoveLastNote drops the most recent note. No-op on an empty answer.
func (g *Game) RemoveLastNote() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.answer) > 0 {
		g.answer = g.answer[:len(g.answer)-1]
	}
}

// ClearNotes empties the answer under construction.
func (g *Game) ClearNotes() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.answer = g.answer[:0]
}

// Answer returns a copy of the notes entered so far.
func (g *Game) Answer() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.answer))
	copy(out, g.answer)
	return out
}

// Submit grades the buffered answer. Local score, attempts and level
// state are reconciled from the server's result. The next task is not
// loaded automatically. A dead lease surfaces as ErrValidation after
// clearing the local lease so the next call starts over.
func (g *Game) Submit(ctx context.Context) (*SubmitResult, error) {
	g.mu.Lock()
	if g.submitting {
		g.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if g.puzzle == nil {
		g.mu.Unlock()
		return nil, ErrNoTask
	}
	if g.lease == nil {
		g.mu.Unlock()
		return nil, fmt.Errorf("%w: no active session", ErrValidation)
	}
	g.submitting = true
	sequenceID := g.puzzle.SequenceID
	answer := strings.Join(g.answer, "-")
	sessionID := g.lease.SessionID
	g.mu.Unlock()

	result, err := g.client.SubmitAnswer(ctx, sequenceID, answer, sessionID)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitting = false

	if err != nil {
		if LeaseDead(err) {
			g.lease = nil
		}
		return nil, err
	}

	g.answer = g.answer[:0]
	g.attemptsLeft = task.MaxAttempts - result.AttemptsUsed
	g.level = result.NextLevel
	g.totalScore = result.TotalScore
	if result.TaskCompleted {
		g.puzzle = nil
	} else {
		g.puzzle.AttemptsUsed = result.AttemptsUsed
	}
	return result, nil
}

// EndSession closes the lease and forgets it locally.
func (g *Game) EndSession(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lease == nil {
		return nil
	}
	err := g.client.EndSession(ctx, g.lease.SessionID)
	g.lease = nil
	if err != nil && !LeaseDead(err) {
		return err
	}
	return nil
}

// Puzzle returns the loaded task, or nil.
func (g *Game) Puzzle() *Puzzle {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.puzzle == nil {
		return nil
	}
	p := *g.puzzle
	return &p
}

// AttemptsLeft returns how many wrong answers the open task survives.
func (g *Game) AttemptsLeft() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attemptsLeft
}

// Level returns the last level reported by the server.
func (g *Game) Level() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level
}

// TotalScore returns the last total reported by the server.
func (g *Game) TotalScore() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totalScore
}

// SessionID returns the current lease id, if one is held.
func (g *Game) SessionID() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lease == nil {
		return "", false
	}
	return g.lease.SessionID, true
}

// Close stops the keep-alive loop, if running.
func (g *Game) Close() {
	g.mu.Lock()
	ka := g.keepAlive
	g.keepAlive = nil
	g.mu.Unlock()
	if ka != nil {
		ka.Stop()
	}
}
