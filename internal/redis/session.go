// Package redis provides a Redis-backed session lease store. Leases are
// JSON values with a TTL; a per-profile pointer key lets Start close the
// prior lease. Deployments that run several game pods point them at the
// same Redis instead of sharing the SQLite file.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/melodiq/melodiq/internal/domain/gamesession"
	"github.com/melodiq/melodiq/internal/repository"
)

const (
	sessionKeyPrefix = "melodiq:session:"
	profileKeyPrefix = "melodiq:session_owner:"

	// retention keeps ended sessions readable for a while so an expired
	// refresh can be told apart from a missing session.
	retention = 24 * time.Hour
)

// SessionRepository implements repository.SessionRepository on Redis.
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// Connect creates a Redis client and verifies the connection.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func profileKey(profileID string) string {
	return profileKeyPrefix + profileID
}

// Create stores a session and points the profile key at it
func (r *SessionRepository) Create(ctx context.Context, sess *gamesession.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(sess.EndedAt) + retention
	if err := r.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	if err := r.client.Set(ctx, profileKey(sess.ProfileID), sess.ID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set owner pointer: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*gamesession.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess gamesession.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Update rewrites a session value with a fresh TTL
func (r *SessionRepository) Update(ctx context.Context, sess *gamesession.Session) error {
	exists, err := r.client.Exists(ctx, sessionKey(sess.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if exists == 0 {
		return repository.ErrNotFound
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	ttl := time.Until(sess.EndedAt) + retention
	if err := r.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// CloseActive ends the profile's current session if it is still live.
// Blind last-write-wins, same as the SQLite store.
func (r *SessionRepository) CloseActive(ctx context.Context, profileID string, now time.Time) (int64, error) {
	id, err := r.client.Get(ctx, profileKey(profileID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get owner pointer: %w", err)
	}

	sess, err := r.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}
	if !sess.Active(now) {
		return 0, nil
	}

	sess.EndedAt = now
	if err := r.Update(ctx, sess); err != nil {
		return 0, err
	}
	return 1, nil
}
