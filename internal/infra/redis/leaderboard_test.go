package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"mathblast/internal/domain"
)

func TestLeaderboardCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{board: []domain.ScoreRecord{
		{ID: "a", UserID: "u1", Score: 10},
		{ID: "b", UserID: "u2", Score: 8},
	}}
	lb := NewLeaderboard(newClient(mr), loader, 10, time.Minute)

	board, err := lb.Top(context.Background())
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(board) != 2 || loader.calls != 1 {
		t.Fatalf("expected one load, got board=%d calls=%d", len(board), loader.calls)
	}
	if !mr.Exists("leaderboard:top") {
		t.Fatalf("expected cache key to be set")
	}

	// Second call should hit cache, loader not incremented.
	if _, err := lb.Top(context.Background()); err != nil {
		t.Fatalf("top 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}

	// After expiry the loader is consulted again.
	mr.FastForward(2 * time.Minute)
	if _, err := lb.Top(context.Background()); err != nil {
		t.Fatalf("top 3: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

type countingLoader struct {
	board []domain.ScoreRecord
	calls int
}

func (l *countingLoader) TopScores(_ context.Context, limit int) ([]domain.ScoreRecord, error) {
	l.calls++
	if len(l.board) > limit {
		return l.board[:limit], nil
	}
	return l.board, nil
}
