package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/melodiq/melodiq/internal/catalog"
	"github.com/melodiq/melodiq/internal/config"
	"github.com/melodiq/melodiq/internal/domain/answer"
	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/domain/task"
	mredis "github.com/melodiq/melodiq/internal/redis"
	"github.com/melodiq/melodiq/internal/sqlite"
	"github.com/melodiq/melodiq/internal/transport"
)

func main() {
	// Local dev convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	if err := ensureDBDir(cfg.DBPath); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	profileRepo := sqlite.NewProfileRepository(db)
	sequenceRepo := sqlite.NewSequenceRepository(db)
	attemptRepo := sqlite.NewAttemptRepository(db)
	playLogRepo := sqlite.NewPlayLogRepository(db)

	sessionRepo, err := newSessionStore(cfg, db, logger)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}

	if cfg.CatalogPath != "" {
		if err := seedCatalog(cfg.CatalogPath, sequenceRepo, logger); err != nil {
			logger.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	sessionSvc := gamesession.NewService(sessionRepo, playLogRepo, logger)
	taskSvc := task.NewService(attemptRepo, profileRepo, sequenceRepo, logger)
	answerSvc := answer.NewService(sessionSvc, attemptRepo, profileRepo, sequenceRepo, playLogRepo,
		answer.Progression{TasksPerLevel: cfg.TasksPerLevel, MaxLevel: cfg.MaxLevel}, logger)

	handler := transport.NewHandler(sessionSvc, taskSvc, answerSvc, logger)
	router := transport.NewRouter(handler, cfg.APIKey, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "session_store", cfg.SessionStore)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// newSessionStore picks the lease backend. SQLite shares the main
// database file; Redis serves multi-pod deployments.
func newSessionStore(cfg config.Config, db *sqlite.DB, logger *slog.Logger) (gamesession.SessionRepository, error) {
	switch cfg.SessionStore {
	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mredis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
		return mredis.NewSessionRepository(client), nil
	default:
		return sqlite.NewSessionRepository(db), nil
	}
}

// seedCatalog upserts sequences from the YAML seed file.
func seedCatalog(path string, repo *sqlite.SequenceRepository, logger *slog.Logger) error {
	sequences, err := catalog.LoadSeed(path)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for i := range sequences {
		if err := repo.Insert(ctx, &sequences[i]); err != nil {
			return fmt.Errorf("seeding sequence %s: %w", sequences[i].ID, err)
		}
	}
	logger.Info("catalog seeded", "path", path, "sequences", len(sequences))
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
