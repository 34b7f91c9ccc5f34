package testserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/domain/answer"
	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/domain/profile"
	"github.com/melodiq/melodiq/internal/domain/task"
	"github.com/melodiq/melodiq/internal/sqlite"
	"github.com/melodiq/melodiq/internal/transport"
)

// TestServer runs the full game stack against an in-memory database
// for end-to-end HTTP tests.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	APIKey   string
	Profiles *sqlite.ProfileRepository
	Catalog  *sqlite.SequenceRepository
}

func New(t *testing.T, apiKey string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	logger := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	sessionRepo := sqlite.NewSessionRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	sequenceRepo := sqlite.NewSequenceRepository(db)
	attemptRepo := sqlite.NewAttemptRepository(db)
	playLogRepo := sqlite.NewPlayLogRepository(db)

	sessionSvc := gamesession.NewService(sessionRepo, playLogRepo, logger)
	taskSvc := task.NewService(attemptRepo, profileRepo, sequenceRepo, logger)
	answerSvc := answer.NewService(sessionSvc, attemptRepo, profileRepo, sequenceRepo, playLogRepo, answer.DefaultProgression, logger)

	handler := transport.NewHandler(sessionSvc, taskSvc, answerSvc, logger)
	server := httptest.NewServer(transport.NewRouter(handler, apiKey, logger))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		APIKey:   apiKey,
		Profiles: profileRepo,
		Catalog:  sequenceRepo,
	}
}

// SeedProfile inserts a profile at the given level with zeroed progress.
func (ts *TestServer) SeedProfile(t *testing.T, id string, level int) {
	t.Helper()
	err := ts.Profiles.Insert(context.Background(), &profile.Profile{
		ID:           id,
		CurrentLevel: level,
	})
	require.NoError(t, err)
}

// SeedSequence inserts a catalog sequence from dash-joined note strings.
func (ts *TestServer) SeedSequence(t *testing.T, id string, level int, beginning, ending string) {
	t.Helper()
	begin, err := catalog.ParseSequence(beginning)
	require.NoError(t, err)
	end, err := catalog.ParseSequence(ending)
	require.NoError(t, err)
	err = ts.Catalog.Insert(context.Background(), &catalog.Sequence{
		ID:        id,
		Level:     level,
		Beginning: begin,
		Ending:    end,
	})
	require.NoError(t, err)
}

// ExpireSession rewrites a session's deadline so it reads as dead.
func (ts *TestServer) ExpireSession(t *testing.T, sessionID string) {
	t.Helper()
	_, err := ts.DB.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, time.Now().Add(-time.Minute), sessionID)
	require.NoError(t, err)
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
