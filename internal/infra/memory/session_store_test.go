package memory

import (
	"context"
	"testing"

	"mathblast/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "u1"); ok {
		t.Fatalf("expected no session")
	}

	session := domain.Session{UserID: "u1", Level: domain.LevelEasy, Score: 3}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Get(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Score != 3 {
		t.Fatalf("expected score 3, got %d", got.Score)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "u1"); ok {
		t.Fatalf("expected session removed")
	}
}
