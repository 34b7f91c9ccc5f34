package task

import (
	"time"

	"github.com/melodiq/melodiq/internal/catalog"
)

// MaxAttempts is how many answers a player gets per task.
const MaxAttempts = 3

// Puzzle is the client-facing slice of a sequence: the played beginning
// plus metadata. The hidden ending never leaves the server.
type Puzzle struct {
	SequenceID    string         `json:"sequence_id"`
	Level         int            `json:"level"`
	Beginning     []catalog.Note `json:"beginning"`
	ExpectedSlots int            `json:"expected_slots"`
	AttemptsUsed  int            `json:"attempts_used"`
}

// Attempt tracks one profile's progress on one sequence. The row exists
// from the moment the puzzle is served; CompletedAt marks the terminal
// submission (scored, or the third failure).
type Attempt struct {
	ProfileID    string     `json:"profile_id"`
	SequenceID   string     `json:"sequence_id"`
	AttemptsUsed int        `json:"attempts_used"`
	Score        int        `json:"score"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the attempt has reached a terminal state.
func (a *Attempt) Completed() bool {
	return a.CompletedAt != nil
}
