package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"mathblast/internal/domain"
)

// Store persists score records and user documents in Postgres. Score rows
// are append-only; user documents are stored as JSONB with a store-assigned
// identifier.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Append(ctx context.Context, record domain.ScoreRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (id, user_id, display_name, email, score, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, record.DisplayName, record.Email, record.Score, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// TopScores ranks by score descending; ties go to the earlier game.
func (s *Store) TopScores(ctx context.Context, limit int) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, display_name, email, score, created_at
		 FROM scores ORDER BY score DESC, created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

func (s *Store) UserHistory(ctx context.Context, userID string, limit int) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, display_name, email, score, created_at
		 FROM scores WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanScores(rows)
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, data FROM users`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserRecord
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		record := domain.UserRecord{}
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("unmarshal user: %w", err)
		}
		record["id"] = id
		users = append(users, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, doc map[string]interface{}) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal user: %w", err)
	}
	id := uuid.New().String()
	if _, err := s.pool.Exec(ctx, `INSERT INTO users (id, data) VALUES ($1, $2)`, id, data); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanScores(rows pgxRows) ([]domain.ScoreRecord, error) {
	var records []domain.ScoreRecord
	for rows.Next() {
		var r domain.ScoreRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.DisplayName, &r.Email, &r.Score, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return records, nil
}
