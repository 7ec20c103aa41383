package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"mathblast/internal/domain"
)

// ScoreLoader fetches the top scores from the backing store.
type ScoreLoader interface {
	TopScores(ctx context.Context, limit int) ([]domain.ScoreRecord, error)
}

// Leaderboard caches the global board with TTL to avoid hitting the store
// on every request.
type Leaderboard struct {
	loader ScoreLoader
	limit  int
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	cached    []domain.ScoreRecord
	expiresAt time.Time
}

func NewLeaderboard(loader ScoreLoader, limit int, ttl time.Duration) *Leaderboard {
	return &Leaderboard{
		loader: loader,
		limit:  limit,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (l *Leaderboard) Top(ctx context.Context) ([]domain.ScoreRecord, error) {
	now := l.clock()

	l.mu.RLock()
	if l.cached != nil && l.expiresAt.After(now) {
		board := l.cached
		l.mu.RUnlock()
		return board, nil
	}
	l.mu.RUnlock()

	result, err, _ := l.sf.Do("leaderboard", func() (interface{}, error) {
		now := l.clock()
		l.mu.RLock()
		if l.cached != nil && l.expiresAt.After(now) {
			board := l.cached
			l.mu.RUnlock()
			return board, nil
		}
		l.mu.RUnlock()

		board, err := l.loader.TopScores(ctx, l.limit)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cached = board
		l.expiresAt = now.Add(l.ttlWithJitter())
		l.mu.Unlock()
		return board, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.ScoreRecord), nil
}

func (l *Leaderboard) ttlWithJitter() time.Duration {
	if l.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(l.ttl) / 10
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}
