package app

import (
	"context"
	"fmt"

	"mathblast/internal/domain"
)

// UserStore is the schemaless user-document collection. Payloads are stored
// verbatim; the store assigns each document's identifier.
type UserStore interface {
	ListUsers(ctx context.Context) ([]domain.UserRecord, error)
	CreateUser(ctx context.Context, doc map[string]interface{}) (string, error)
}

// LeaderboardProvider serves the global top scores, usually through a
// read-through cache in front of the score store.
type LeaderboardProvider interface {
	Top(ctx context.Context) ([]domain.ScoreRecord, error)
}

// LeaderboardSize is how many records the global board exposes.
const LeaderboardSize = 10

// ScoreboardService backs the token-gated REST API: user documents, the
// global leaderboard, and per-user score history.
type ScoreboardService struct {
	users       UserStore
	leaderboard LeaderboardProvider
	scores      ScoreStore
}

func NewScoreboardService(users UserStore, leaderboard LeaderboardProvider, scores ScoreStore) *ScoreboardService {
	return &ScoreboardService{users: users, leaderboard: leaderboard, scores: scores}
}

// ListUsers returns every user document in store order.
func (s *ScoreboardService) ListUsers(ctx context.Context) ([]domain.UserRecord, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts the payload verbatim and returns the assigned ID.
// No schema is enforced.
func (s *ScoreboardService) CreateUser(ctx context.Context, doc map[string]interface{}) (string, error) {
	id, err := s.users.CreateUser(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// Leaderboard returns the top scores, best first. Ties rank the earlier
// game first.
func (s *ScoreboardService) Leaderboard(ctx context.Context) ([]domain.ScoreRecord, error) {
	board, err := s.leaderboard.Top(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	if len(board) > LeaderboardSize {
		board = board[:LeaderboardSize]
	}
	return board, nil
}

// History returns the caller's last ten games, newest first.
func (s *ScoreboardService) History(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	records, err := s.scores.UserHistory(ctx, userID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return records, nil
}
