package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"event-planner/backend/internal/features/planner/domain"
)

// SessionStore keeps one SessionState per browser session.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (domain.SessionState, error)
	Put(ctx context.Context, sessionID string, state domain.SessionState) error
}

// memorySessionStore is the default in-process store.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionState
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.SessionState)}
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (domain.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[sessionID], nil
}

func (s *memorySessionStore) Put(_ context.Context, sessionID string, state domain.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = state
	return nil
}

const redisKeyPrefix = "event-planner:session:"

// redisSessionStore keeps session state as JSON so several instances can share it.
type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore connects to addr and verifies the connection.
func NewRedisSessionStore(ctx context.Context, addr string, ttl time.Duration) (SessionStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &redisSessionStore{rdb: rdb, ttl: ttl}, nil
}

func (s *redisSessionStore) Get(ctx context.Context, sessionID string) (domain.SessionState, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SessionState{}, nil
	}
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to decode session %s: %w", sessionID, err)
	}
	return state, nil
}

func (s *redisSessionStore) Put(ctx context.Context, sessionID string, state domain.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sessionID, err)
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session %s: %w", sessionID, err)
	}
	return nil
}
