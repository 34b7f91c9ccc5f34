package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/metrics"
	"github.com/melodiq/melodiq/internal/repository/repoerr"
)

// Service serves puzzles: it resumes an in-progress attempt or generates
// a new one from the catalog at the profile's current level.
type Service struct {
	attempts  AttemptRepository
	profiles  ProfileStore
	sequences Catalog
	logger    *slog.Logger
	pick      func(n int) int
}

// NewService creates a new task service.
func NewService(attempts AttemptRepository, profiles ProfileStore, sequences Catalog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		attempts:  attempts,
		profiles:  profiles,
		sequences: sequences,
		logger:    logger,
		pick:      rand.Intn,
	}
}

// ResumeOrGenerate returns the profile's open attempt if one exists, so a
// page reload lands exactly where the player left off, and falls through
// to generation otherwise.
func (s *Service) ResumeOrGenerate(ctx context.Context, profileID string) (*Puzzle, error) {
	puzzle, err := s.Current(ctx, profileID)
	if err == nil {
		metrics.TasksServedTotal.WithLabelValues("resumed").Inc()
		return puzzle, nil
	}
	if !errors.Is(err, ErrNoOpenTask) {
		return nil, err
	}
	return s.Generate(ctx, profileID)
}

// Current returns the profile's in-progress puzzle, or ErrNoOpenTask.
func (s *Service) Current(ctx context.Context, profileID string) (*Puzzle, error) {
	if profileID == "" {
		return nil, ErrInvalidInput
	}

	att, err := s.attempts.GetOpen(ctx, profileID)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, ErrNoOpenTask
		}
		return nil, fmt.Errorf("loading open attempt: %w", err)
	}

	seq, err := s.sequences.Get(ctx, att.SequenceID)
	if err != nil {
		return nil, fmt.Errorf("loading sequence %s: %w", att.SequenceID, err)
	}

	return puzzleFor(seq, att.AttemptsUsed), nil
}

// Generate picks a sequence uniformly at random from the unplayed
// sequences at the profile's level and opens an attempt for it. The
// attempt row is what makes the puzzle resumable before any answer is
// submitted.
func (s *Service) Generate(ctx context.Context, profileID string) (*Puzzle, error) {
	if profileID == "" {
		return nil, ErrInvalidInput
	}

	prof, err := s.profiles.Get(ctx, profileID)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	candidates, err := s.sequences.ListByLevel(ctx, prof.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("listing sequences for level %d: %w", prof.CurrentLevel, err)
	}

	completed, err := s.attempts.CompletedSequenceIDs(ctx, profileID, prof.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("listing completed sequences: %w", err)
	}
	done := make(map[string]struct{}, len(completed))
	for _, id := range completed {
		done[id] = struct{}{}
	}

	var open []catalog.Sequence
	for _, seq := range candidates {
		if _, ok := done[seq.ID]; !ok {
			open = append(open, seq)
		}
	}
	if len(open) == 0 {
		s.logger.Warn("no sequences to serve", "profile_id", profileID, "level", prof.CurrentLevel, "catalog", len(candidates))
		return nil, ErrNoSequences
	}

	seq := open[s.pick(len(open))]
	att := &Attempt{
		ProfileID:    profileID,
		SequenceID:   seq.ID,
		AttemptsUsed: 0,
		StartedAt:    time.Now(),
	}
	if err := s.attempts.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("opening attempt: %w", err)
	}

	metrics.TasksServedTotal.WithLabelValues("generated").Inc()
	s.logger.Debug("puzzle generated", "profile_id", profileID, "sequence_id", seq.ID, "level", seq.Level)

	return puzzleFor(&seq, 0), nil
}

func puzzleFor(seq *catalog.Sequence, attemptsUsed int) *Puzzle {
	return &Puzzle{
		SequenceID:    seq.ID,
		Level:         seq.Level,
		Beginning:     seq.Beginning,
		ExpectedSlots: seq.ExpectedSlots(),
		AttemptsUsed:  attemptsUsed,
	}
}
