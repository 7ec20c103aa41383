package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"mathblast/internal/domain"
)

// ScoreStore keeps score records and user documents in memory. Useful for
// demos and handler tests; production runs use the Postgres or Supabase
// stores.
type ScoreStore struct {
	mu      sync.RWMutex
	records []domain.ScoreRecord
	users   []domain.UserRecord
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) Append(_ context.Context, record domain.ScoreRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// TopScores returns the best records, score descending with earlier games
// first on ties.
func (s *ScoreStore) TopScores(_ context.Context, limit int) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	out := make([]domain.ScoreRecord, len(s.records))
	copy(out, s.records)
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UserHistory returns the user's records newest first.
func (s *ScoreStore) UserHistory(_ context.Context, userID string, limit int) ([]domain.ScoreRecord, error) {
	s.mu.RLock()
	var out []domain.ScoreRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ScoreStore) ListUsers(_ context.Context) ([]domain.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UserRecord, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *ScoreStore) CreateUser(_ context.Context, doc map[string]interface{}) (string, error) {
	id := uuid.New().String()
	record := domain.UserRecord{"id": id}
	for k, v := range doc {
		record[k] = v
	}

	s.mu.Lock()
	s.users = append(s.users, record)
	s.mu.Unlock()
	return id, nil
}
