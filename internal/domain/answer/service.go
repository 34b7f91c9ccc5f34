package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/playlog"
	"github.com/melodiq/melodiq/internal/domain/task"
	"github.com/melodiq/melodiq/internal/metrics"
	"github.com/melodiq/melodiq/internal/repository"
)

// Progression configures level advancement.
type Progression struct {
	// TasksPerLevel is how many scored tasks advance the level.
	TasksPerLevel int
	// MaxLevel caps advancement.
	MaxLevel int
}

// DefaultProgression matches the shipped level curve.
var DefaultProgression = Progression{TasksPerLevel: 5, MaxLevel: 10}

// Result is the authoritative outcome of a submission. The client
// reconciles its local state from it.
type Result struct {
	Score          int
	AttemptsUsed   int
	TaskCompleted  bool
	LevelCompleted bool
	NextLevel      int
	TotalScore     int
}

// Service grades submissions and drives attempts, score and level
// progression.
type Service struct {
	sessions    SessionVerifier
	attempts    AttemptRepository
	profiles    ProfileStore
	sequences   Catalog
	playlog     playlog.Recorder
	progression Progression
	logger      *slog.Logger
}

// NewService creates a new answer service.
func NewService(
	sessions SessionVerifier,
	attempts AttemptRepository,
	profiles ProfileStore,
	sequences Catalog,
	recorder playlog.Recorder,
	progression Progression,
	logger *slog.Logger,
) *Service {
	if progression.TasksPerLevel <= 0 {
		progression.TasksPerLevel = DefaultProgression.TasksPerLevel
	}
	if progression.MaxLevel <= 0 {
		progression.MaxLevel = DefaultProgression.MaxLevel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:    sessions,
		attempts:    attempts,
		profiles:    profiles,
		sequences:   sequences,
		playlog:     recorder,
		progression: progression,
		logger:      logger,
	}
}

// Submit grades one answer against the task's hidden ending.
//
// A correct answer never consumes an attempt; a wrong one does. The task
// terminates on a scored answer or the third failure. Only scored
// completions count toward level progression.
func (s *Service) Submit(ctx context.Context, profileID, sequenceID, answer, sessionID string) (*Result, error) {
	if profileID == "" || sequenceID == "" {
		return nil, ErrInvalidInput
	}

	active, err := s.sessions.Verify(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	if !active {
		return nil, ErrSessionInactive
	}

	att, err := s.attempts.Get(ctx, profileID, sequenceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("loading attempt: %w", err)
	}
	if att.Completed() {
		return nil, ErrTaskCompleted
	}

	seq, err := s.sequences.Get(ctx, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("loading sequence: %w", err)
	}

	submitted, err := catalog.ParseSequence(answer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}

	correct := catalog.EqualNotes(submitted, seq.Ending)
	score := 0
	if correct {
		score = rewardFor(att.AttemptsUsed)
	} else {
		att.AttemptsUsed++
	}
	completed := score > 0 || att.AttemptsUsed >= task.MaxAttempts

	prof, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	result := &Result{
		Score:         score,
		AttemptsUsed:  att.AttemptsUsed,
		TaskCompleted: completed,
		NextLevel:     prof.CurrentLevel,
	}

	if completed {
		now := time.Now()
		att.CompletedAt = &now
		att.Score = score
		if score > 0 {
			prof.TotalScore += score
			prof.CompletedTasksInLevel++
			if prof.CompletedTasksInLevel >= s.progression.TasksPerLevel && prof.CurrentLevel < s.progression.MaxLevel {
				prof.CompletedTasksInLevel = 0
				prof.CurrentLevel++
				result.LevelCompleted = true
				result.NextLevel = prof.CurrentLevel
				metrics.LevelUpsTotal.Inc()
				s.record(ctx, &playlog.Entry{
					ProfileID: profileID,
					SessionID: sessionID,
					EventType: playlog.EventLevelUp,
					Details:   fmt.Sprintf("level %d", prof.CurrentLevel),
				})
			}
		}
	}

	now := time.Now()
	prof.LastPlayedAt = &now
	if err := s.profiles.UpdateProgress(ctx, prof); err != nil {
		return nil, fmt.Errorf("updating profile progress: %w", err)
	}
	if err := s.attempts.Update(ctx, att); err != nil {
		return nil, fmt.Errorf("updating attempt: %w", err)
	}

	result.TotalScore = prof.TotalScore

	metrics.SubmissionsTotal.WithLabelValues(submissionOutcome(correct, completed)).Inc()
	s.record(ctx, &playlog.Entry{
		ProfileID:  profileID,
		SessionID:  sessionID,
		SequenceID: sequenceID,
		EventType:  playlog.EventSubmission,
		Details:    fmt.Sprintf("score=%d attempts=%d", score, att.AttemptsUsed),
	})
	s.logger.Debug("submission graded",
		"profile_id", profileID,
		"sequence_id", sequenceID,
		"correct", correct,
		"score", score,
		"attempts_used", att.AttemptsUsed,
	)

	return result, nil
}

func submissionOutcome(correct, completed bool) string {
	switch {
	case correct:
		return "correct"
	case completed:
		return "exhausted"
	default:
		return "wrong"
	}
}

func (s *Service) record(ctx context.Context, entry *playlog.Entry) {
	if s.playlog == nil {
		return
	}
	if err := s.playlog.Record(ctx, entry); err != nil {
		s.logger.Warn("play log write failed", "event", entry.EventType, "error", err)
	}
}
