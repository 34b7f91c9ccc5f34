package answer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/answer"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/domain/task"
	"github.com/melodiq/melodiq/internal/repository"
	"github.com/melodiq/melodiq/internal/repository/mocks"
)

var triad = catalog.Sequence{
	ID:        "seq-1",
	Level:     1,
	Beginning: []catalog.Note{"C4", "E4", "G4"},
	Ending:    []catalog.Note{"C4", "E4"},
}

type fixture struct {
	sessions  *mocks.SessionVerifier
	attempts  *mocks.AttemptRepository
	profiles  *mocks.ProfileRepository
	sequences *mocks.SequenceRepository
	svc       *answer.Service
}

func newFixture(t *testing.T, prof *profile.Profile, att *task.Attempt) *fixture {
	t.Helper()
	f := &fixture{
		sessions:  &mocks.SessionVerifier{},
		attempts:  &mocks.AttemptRepository{},
		profiles:  &mocks.ProfileRepository{},
		sequences: &mocks.SequenceRepository{},
	}
	f.sessions.On("Verify", mock.Anything, "sess1").Return(true, nil)
	f.sequences.On("Get", mock.Anything, "seq-1").Return(&triad, nil)
	if att != nil {
		f.attempts.On("Get", mock.Anything, prof.ID, "seq-1").Return(att, nil)
	}
	f.profiles.On("Get", mock.Anything, prof.ID).Return(prof, nil)
	f.profiles.On("UpdateProgress", mock.Anything, mock.Anything).Return(nil)
	f.attempts.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.svc = answer.NewService(f.sessions, f.attempts, f.profiles, f.sequences, nil, answer.Progression{}, nil)
	return f
}

func TestAnswerService_FirstTrySuccess(t *testing.T) {
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 1, TotalScore: 20}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "sess1")
	require.NoError(t, err)
	require.Equal(t, 10, result.Score)
	// A correct answer does not consume an attempt.
	require.Equal(t, 0, result.AttemptsUsed)
	require.True(t, result.TaskCompleted)
	require.False(t, result.LevelCompleted)
	require.Equal(t, 1, result.NextLevel)
	require.Equal(t, 30, result.TotalScore)

	require.True(t, att.Completed())
	require.Equal(t, 10, att.Score)
	require.Equal(t, 1, prof.CompletedTasksInLevel)
	require.NotNil(t, prof.LastPlayedAt)
}

func TestAnswerService_WrongAnswer(t *testing.T) {
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 1}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "E4-C4", "sess1")
	require.NoError(t, err)
	require.Equal(t, 0, result.Score)
	require.Equal(t, 1, result.AttemptsUsed)
	require.False(t, result.TaskCompleted)
	require.False(t, att.Completed())
	require.Equal(t, 0, prof.CompletedTasksInLevel)
}

func TestAnswerService_RewardTiers(t *testing.T) {
	cases := []struct {
		prior int
		score int
	}{
		{0, 10},
		{1, 7},
		{2, 5},
	}
	for _, tc := range cases {
		prof := &profile.Profile{ID: "prof1", CurrentLevel: 1}
		att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", AttemptsUsed: tc.prior, StartedAt: time.Now()}
		f := newFixture(t, prof, att)

		result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "sess1")
		require.NoError(t, err)
		require.Equal(t, tc.score, result.Score, "prior attempts %d", tc.prior)
		require.Equal(t, tc.prior, result.AttemptsUsed)
	}
}

func TestAnswerService_ThreeStrikes(t *testing.T) {
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 1, TotalScore: 50}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	for want := 1; want <= 3; want++ {
		result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "G4-G4", "sess1")
		require.NoError(t, err)
		require.Equal(t, 0, result.Score)
		require.Equal(t, want, result.AttemptsUsed)
		require.Equal(t, want == 3, result.TaskCompleted)
	}

	// Third failure archives the task with no score and no level credit.
	require.True(t, att.Completed())
	require.Equal(t, 0, att.Score)
	require.Equal(t, 50, prof.TotalScore)
	require.Equal(t, 0, prof.CompletedTasksInLevel)
}

func TestAnswerService_LevelAdvance(t *testing.T) {
	// 4 tasks already scored; the 5th advances the level and resets the
	// counter.
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 2, CompletedTasksInLevel: 4}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "sess1")
	require.NoError(t, err)
	require.True(t, result.LevelCompleted)
	require.Equal(t, 3, result.NextLevel)
	require.Equal(t, 3, prof.CurrentLevel)
	require.Equal(t, 0, prof.CompletedTasksInLevel)
}

func TestAnswerService_NoAdvanceBeforeFive(t *testing.T) {
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 2, CompletedTasksInLevel: 3}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "sess1")
	require.NoError(t, err)
	require.False(t, result.LevelCompleted)
	require.Equal(t, 2, prof.CurrentLevel)
	require.Equal(t, 4, prof.CompletedTasksInLevel)
}

func TestAnswerService_LevelCap(t *testing.T) {
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 10, CompletedTasksInLevel: 4}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	result, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "sess1")
	require.NoError(t, err)
	require.False(t, result.LevelCompleted)
	require.Equal(t, 10, prof.CurrentLevel)
	// The counter keeps climbing at the cap; it never rolls a level.
	require.Equal(t, 5, prof.CompletedTasksInLevel)
}

func TestAnswerService_InactiveSession(t *testing.T) {
	sessions := &mocks.SessionVerifier{}
	sessions.On("Verify", mock.Anything, "stale").Return(false, nil)

	svc := answer.NewService(sessions, &mocks.AttemptRepository{}, &mocks.ProfileRepository{}, &mocks.SequenceRepository{}, nil, answer.Progression{}, nil)
	_, err := svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "stale")
	require.ErrorIs(t, err, answer.ErrSessionInactive)
}

func TestAnswerService_DuplicateCompletion(t *testing.T) {
	done := time.Now()
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 1}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", Score: 10, CompletedAt: &done}
	f := newFixture(t, prof, att)

	_, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-E4", "sess1")
	require.ErrorIs(t, err, answer.ErrTaskCompleted)
	f.profiles.AssertNotCalled(t, "UpdateProgress", mock.Anything, mock.Anything)
}

func TestAnswerService_UnknownTask(t *testing.T) {
	sessions := &mocks.SessionVerifier{}
	attempts := &mocks.AttemptRepository{}
	sessions.On("Verify", mock.Anything, "sess1").Return(true, nil)
	attempts.On("Get", mock.Anything, "prof1", "ghost").Return(nil, repository.ErrNotFound)

	svc := answer.NewService(sessions, attempts, &mocks.ProfileRepository{}, &mocks.SequenceRepository{}, nil, answer.Progression{}, nil)
	_, err := svc.Submit(context.Background(), "prof1", "ghost", "C4-E4", "sess1")
	require.ErrorIs(t, err, answer.ErrTaskNotFound)
}

func TestAnswerService_MalformedAnswer(t *testing.T) {
	prof := &profile.Profile{ID: "prof1", CurrentLevel: 1}
	att := &task.Attempt{ProfileID: "prof1", SequenceID: "seq-1", StartedAt: time.Now()}
	f := newFixture(t, prof, att)

	_, err := f.svc.Submit(context.Background(), "prof1", "seq-1", "C4-X9", "sess1")
	require.ErrorIs(t, err, answer.ErrInvalidAnswer)
	f.attempts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
