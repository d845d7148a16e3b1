package infrastructure

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"event-planner/backend/internal/features/planner/domain"
)

func exerciseStore(t *testing.T, store SessionStore) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	state, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Plan != nil {
		t.Fatalf("new session should be idle, got plan %+v", state.Plan)
	}

	plan := &domain.GeneratedPlan{Goal: "A launch", EventPlan: "plan", TokensUsed: 310}
	if err := store.Put(ctx, id, domain.SessionState{Plan: plan}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	state, err = store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if state.Plan == nil || state.Plan.Goal != "A launch" || state.Plan.TokensUsed != 310 {
		t.Fatalf("unexpected state: %+v", state.Plan)
	}

	other, _ := store.Get(ctx, uuid.NewString())
	if other.Plan != nil {
		t.Fatal("sessions must not share state")
	}
}

func TestMemorySessionStore(t *testing.T) {
	exerciseStore(t, NewMemorySessionStore())
}

func TestRedisSessionStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	store, err := NewRedisSessionStore(context.Background(), addr, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisSessionStore: %v", err)
	}
	exerciseStore(t, store)
}
