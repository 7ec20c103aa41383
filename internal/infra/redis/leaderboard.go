package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"mathblast/internal/domain"
)

// ScoreLoader fetches the top scores from the backing store.
type ScoreLoader interface {
	TopScores(ctx context.Context, limit int) ([]domain.ScoreRecord, error)
}

const leaderboardKey = "leaderboard:top"

// Leaderboard caches the global board in Redis as a JSON blob and falls
// back to the loader on cache miss, so one store query serves every
// instance until the TTL lapses.
type Leaderboard struct {
	client *redis.Client
	loader ScoreLoader
	limit  int
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewLeaderboard(client *redis.Client, loader ScoreLoader, limit int, ttl time.Duration) *Leaderboard {
	return &Leaderboard{
		client: client,
		loader: loader,
		limit:  limit,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (l *Leaderboard) Top(ctx context.Context) ([]domain.ScoreRecord, error) {
	if board, ok := l.cached(ctx); ok {
		return board, nil
	}

	result, err, _ := l.sf.Do(leaderboardKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if board, ok := l.cached(ctx); ok {
			return board, nil
		}

		board, err := l.loader.TopScores(ctx, l.limit)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(board); err == nil {
			// best-effort cache fill
			_ = l.client.Set(ctx, leaderboardKey, data, l.ttlWithJitter()).Err()
		}
		return board, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ScoreRecord), nil
}

func (l *Leaderboard) cached(ctx context.Context) ([]domain.ScoreRecord, bool) {
	data, err := l.client.Get(ctx, leaderboardKey).Bytes()
	if err != nil {
		return nil, false
	}
	var board []domain.ScoreRecord
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, false
	}
	return board, true
}

func (l *Leaderboard) ttlWithJitter() time.Duration {
	if l.ttl <= 0 {
		return 0
	}
	jitterMax := int64(l.ttl) / 10
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}
