package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"

	"mathblast/internal/domain"
)

// Store talks to a Supabase project's PostgREST API, using the same
// "scores" and "users" tables as the Postgres store. All requests carry
// the service key; row filtering happens server side.
type Store struct {
	client *postgrest.Client
}

func NewStore(projectURL, serviceKey string) *Store {
	rest := strings.TrimRight(projectURL, "/") + "/rest/v1"
	client := postgrest.NewClient(rest, "public", map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	})
	return &Store{client: client}
}

type scoreRow struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"created_at"`
}

type userRow struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

func (s *Store) Append(_ context.Context, record domain.ScoreRecord) error {
	row := scoreRow{
		ID:          record.ID,
		UserID:      record.UserID,
		DisplayName: record.DisplayName,
		Email:       record.Email,
		Score:       record.Score,
		CreatedAt:   record.CreatedAt,
	}
	_, _, err := s.client.From("scores").Insert(row, false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *Store) TopScores(_ context.Context, limit int) ([]domain.ScoreRecord, error) {
	data, _, err := s.client.From("scores").
		Select("*", "", false).
		Order("score", &postgrest.OrderOpts{Ascending: false}).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	return decodeScores(data)
}

func (s *Store) UserHistory(_ context.Context, userID string, limit int) ([]domain.ScoreRecord, error) {
	data, _, err := s.client.From("scores").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return decodeScores(data)
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserRecord, error) {
	data, _, err := s.client.From("users").Select("*", "", false).Execute()
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	var rows []userRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}
	users := make([]domain.UserRecord, 0, len(rows))
	for _, row := range rows {
		record := domain.UserRecord{"id": row.ID}
		for k, v := range row.Data {
			record[k] = v
		}
		users = append(users, record)
	}
	return users, nil
}

func (s *Store) CreateUser(_ context.Context, doc map[string]interface{}) (string, error) {
	row := userRow{ID: uuid.New().String(), Data: doc}
	_, _, err := s.client.From("users").Insert(row, false, "", "minimal", "").Execute()
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	return row.ID, nil
}

func decodeScores(data []byte) ([]domain.ScoreRecord, error) {
	var rows []scoreRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal scores: %w", err)
	}
	records := make([]domain.ScoreRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.ScoreRecord{
			ID:          row.ID,
			UserID:      row.UserID,
			DisplayName: row.DisplayName,
			Email:       row.Email,
			Score:       row.Score,
			CreatedAt:   row.CreatedAt,
		})
	}
	return records, nil
}
