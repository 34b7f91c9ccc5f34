package gamesession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/melodiq/melodiq/internal/domain/playlog"
	"github.com/melodiq/melodiq/internal/metrics"
	"github.com/melodiq/melodiq/internal/repository/repoerr"
)

// Service owns the active-session lease per profile.
type Service struct {
	sessions SessionRepository
	playlog  playlog.Recorder
	logger   *slog.Logger
}

// NewService creates a new session service.
func NewService(sessions SessionRepository, recorder playlog.Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		playlog:  recorder,
		logger:   logger,
	}
}

// Start closes any session still active for the profile, then grants a
// fresh lease running SessionDuration from now. Prior leases are closed
// with a blind write; two tabs racing leave whichever wrote last.
func (s *Service) Start(ctx context.Context, profileID string) (*Lease, error) {
	if profileID == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	closed, err := s.sessions.CloseActive(ctx, profileID, now)
	if err != nil {
		return nil, fmt.Errorf("closing prior sessions: %w", err)
	}
	if closed > 0 {
		s.logger.Debug("rotated active session", "profile_id", profileID, "closed", closed)
	}

	sess := &Session{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		StartedAt: now,
		EndedAt:   now.Add(SessionDuration),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	metrics.SessionsStartedTotal.Inc()
	s.record(ctx, &playlog.Entry{
		ProfileID: profileID,
		SessionID: sess.ID,
		EventType: playlog.EventSessionStarted,
	})

	return &Lease{SessionID: sess.ID, EndedAt: sess.EndedAt}, nil
}

// Refresh extends an active lease by RefreshExtension from its current
// deadline. An expired lease cannot be refreshed.
func (s *Service) Refresh(ctx context.Context, sessionID, ownerID string) (*Lease, error) {
	sess, err := s.load(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	if !sess.Active(time.Now()) {
		return nil, ErrSessionExpired
	}

	sess.EndedAt = sess.EndedAt.Add(RefreshExtension)
	if err := s.sessions.Update(ctx, sess); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}

	return &Lease{SessionID: sess.ID, EndedAt: sess.EndedAt}, nil
}

// End terminates an active lease by forcing its deadline to now.
func (s *Service) End(ctx context.Context, sessionID, ownerID string) error {
	sess, err := s.load(ctx, sessionID, ownerID)
	if err != nil {
		return err
	}

	now := time.Now()
	if !sess.Active(now) {
		return ErrSessionExpired
	}

	sess.EndedAt = now
	if err := s.sessions.Update(ctx, sess); err != nil {
		return fmt.Errorf("updating session: %w", err)
	}

	s.record(ctx, &playlog.Entry{
		ProfileID: sess.ProfileID,
		SessionID: sess.ID,
		EventType: playlog.EventSessionEnded,
	})
	return nil
}

// Verify reports whether the session exists and is still active. Pure
// read, no ownership check.
func (s *Service) Verify(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading session: %w", err)
	}
	return sess.Active(time.Now()), nil
}

func (s *Service) load(ctx context.Context, sessionID, ownerID string) (*Session, error) {
	if sessionID == "" || ownerID == "" {
		return nil, ErrInvalidInput
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if sess.ProfileID != ownerID {
		return nil, ErrNotOwner
	}
	return sess, nil
}

func (s *Service) record(ctx context.Context, entry *playlog.Entry) {
	if s.playlog == nil {
		return
	}
	if err := s.playlog.Record(ctx, entry); err != nil {
		s.logger.Warn("play log write failed", "event", entry.EventType, "error", err)
	}
}
