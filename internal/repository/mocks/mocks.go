package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/domain/playlog"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/domain/task"
)

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *gamesession.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*gamesession.Session, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*gamesession.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Update(ctx context.Context, sess *gamesession.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) CloseActive(ctx context.Context, profileID string, now time.Time) (int64, error) {
	args := m.Called(ctx, profileID, now)
	return args.Get(0).(int64), args.Error(1)
}

// ProfileRepository is a mock for repository.ProfileRepository.
type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) Get(ctx context.Context, id string) (*profile.Profile, error) {
	args := m.Called(ctx, id)
	if prof, ok := args.Get(0).(*profile.Profile); ok {
		return prof, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProfileRepository) UpdateProgress(ctx context.Context, prof *profile.Profile) error {
	args := m.Called(ctx, prof)
	return args.Error(0)
}

// SequenceRepository is a mock for repository.SequenceRepository.
type SequenceRepository struct {
	mock.Mock
}

func (m *SequenceRepository) Get(ctx context.Context, id string) (*catalog.Sequence, error) {
	args := m.Called(ctx, id)
	if seq, ok := args.Get(0).(*catalog.Sequence); ok {
		return seq, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SequenceRepository) ListByLevel(ctx context.Context, level int) ([]catalog.Sequence, error) {
	args := m.Called(ctx, level)
	if list, ok := args.Get(0).([]catalog.Sequence); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SequenceRepository) Insert(ctx context.Context, seq *catalog.Sequence) error {
	args := m.Called(ctx, seq)
	return args.Error(0)
}

// AttemptRepository is a mock for repository.AttemptRepository.
type AttemptRepository struct {
	mock.Mock
}

func (m *AttemptRepository) Create(ctx context.Context, att *task.Attempt) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *AttemptRepository) Get(ctx context.Context, profileID, sequenceID string) (*task.Attempt, error) {
	args := m.Called(ctx, profileID, sequenceID)
	if att, ok := args.Get(0).(*task.Attempt); ok {
		return att, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttemptRepository) GetOpen(ctx context.Context, profileID string) (*task.Attempt, error) {
	args := m.Called(ctx, profileID)
	if att, ok := args.Get(0).(*task.Attempt); ok {
		return att, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttemptRepository) Update(ctx context.Context, att *task.Attempt) error {
	args := m.Called(ctx, att)
	return args.Error(0)
}

func (m *AttemptRepository) CompletedSequenceIDs(ctx context.Context, profileID string, level int) ([]string, error) {
	args := m.Called(ctx, profileID, level)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// PlayLogRepository is a mock for repository.PlayLogRepository.
type PlayLogRepository struct {
	mock.Mock
}

func (m *PlayLogRepository) Record(ctx context.Context, entry *playlog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *PlayLogRepository) List(ctx context.Context, profileID string, limit int) ([]playlog.Entry, error) {
	args := m.Called(ctx, profileID, limit)
	if list, ok := args.Get(0).([]playlog.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionVerifier is a mock for answer.SessionVerifier.
type SessionVerifier struct {
	mock.Mock
}

func (m *SessionVerifier) Verify(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
