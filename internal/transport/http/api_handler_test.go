package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mathblast/internal/app"
	"mathblast/internal/domain"
	"mathblast/internal/infra/memory"
)

const goodToken = "good-token"

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, token string) (domain.Identity, error) {
	if token != goodToken {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{UserID: "u1", Email: "alice@example.com", DisplayName: "Alice"}, nil
}

func newTestServer(t *testing.T, store *memory.ScoreStore) *httptest.Server {
	t.Helper()
	leaderboard := memory.NewLeaderboard(store, app.LeaderboardSize, time.Minute)
	scoreboard := app.NewScoreboardService(store, leaderboard, store)
	api := NewAPIHandler(scoreboard)
	play := NewPlayHandler(app.NewGameService(memory.NewSessionStore(), store))
	router := NewRouter(stubVerifier{}, api, nil, play)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func TestLeaderboardRequiresToken(t *testing.T) {
	server := newTestServer(t, memory.NewScoreStore())

	resp := doRequest(t, "GET", server.URL+"/leaderboard", "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error message, got %+v", payload)
	}
}

func TestLeaderboardRejectsBadToken(t *testing.T) {
	server := newTestServer(t, memory.NewScoreStore())

	resp := doRequest(t, "GET", server.URL+"/leaderboard", "forged", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLeaderboardTopTenSorted(t *testing.T) {
	store := memory.NewScoreStore()
	base := time.Now()
	for i := 0; i < 15; i++ {
		_ = store.Append(context.Background(), domain.ScoreRecord{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			Score:     i % 11,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	server := newTestServer(t, store)

	resp := doRequest(t, "GET", server.URL+"/leaderboard", goodToken, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var board []domain.ScoreRecord
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(board) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(board))
	}
	for i := 1; i < len(board); i++ {
		if board[i].Score > board[i-1].Score {
			t.Fatalf("board not sorted descending at %d: %d > %d", i, board[i].Score, board[i-1].Score)
		}
	}
}

func TestCreateAndListUsers(t *testing.T) {
	server := newTestServer(t, memory.NewScoreStore())

	body, _ := json.Marshal(map[string]interface{}{"name": "Alice", "favoriteNumber": 7})
	resp := doRequest(t, "POST", server.URL+"/users", goodToken, body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var created map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["id"] == "" {
		t.Fatalf("expected assigned id, got %+v", created)
	}

	listResp := doRequest(t, "GET", server.URL+"/users", goodToken, nil)
	defer listResp.Body.Close()
	var users []domain.UserRecord
	if err := json.NewDecoder(listResp.Body).Decode(&users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if len(users) != 1 || users[0]["name"] != "Alice" || users[0]["id"] != created["id"] {
		t.Fatalf("unexpected users: %+v", users)
	}
}

// brokenStore fails every operation with the same message.
type brokenStore struct{}

func (brokenStore) Append(context.Context, domain.ScoreRecord) error { return errStoreDown }
func (brokenStore) TopScores(context.Context, int) ([]domain.ScoreRecord, error) {
	return nil, errStoreDown
}
func (brokenStore) UserHistory(context.Context, string, int) ([]domain.ScoreRecord, error) {
	return nil, errStoreDown
}
func (brokenStore) ListUsers(context.Context) ([]domain.UserRecord, error) {
	return nil, errStoreDown
}
func (brokenStore) CreateUser(context.Context, map[string]interface{}) (string, error) {
	return "", errStoreDown
}

var errStoreDown = errors.New("store down")

func TestStoreFailuresReturn500WithMessage(t *testing.T) {
	store := brokenStore{}
	leaderboard := memory.NewLeaderboard(store, app.LeaderboardSize, time.Minute)
	scoreboard := app.NewScoreboardService(store, leaderboard, store)
	router := NewRouter(stubVerifier{}, NewAPIHandler(scoreboard), nil, nil)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	cases := []struct {
		method, path string
		body         []byte
	}{
		{"GET", "/users", nil},
		{"POST", "/users", []byte(`{"name":"Alice"}`)},
		{"GET", "/leaderboard", nil},
		{"GET", "/scores/me", nil},
	}
	for _, tc := range cases {
		resp := doRequest(t, tc.method, server.URL+tc.path, goodToken, tc.body)
		if resp.StatusCode != http.StatusInternalServerError {
			resp.Body.Close()
			t.Fatalf("%s %s: expected 500, got %d", tc.method, tc.path, resp.StatusCode)
		}
		var payload map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("%s %s: decode: %v", tc.method, tc.path, err)
		}
		resp.Body.Close()
		if !strings.Contains(payload["error"], errStoreDown.Error()) {
			t.Fatalf("%s %s: expected underlying message, got %+v", tc.method, tc.path, payload)
		}
	}
}

func TestBearerTokenIgnoredInQueryOnPlainRequests(t *testing.T) {
	server := newTestServer(t, memory.NewScoreStore())

	resp := doRequest(t, "GET", server.URL+"/leaderboard?token="+goodToken, "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected query token to be ignored on plain request, got %d", resp.StatusCode)
	}
}

func TestMyHistoryScopedToCaller(t *testing.T) {
	store := memory.NewScoreStore()
	_ = store.Append(context.Background(), domain.ScoreRecord{ID: "mine", UserID: "u1", Score: 9, CreatedAt: time.Now()})
	_ = store.Append(context.Background(), domain.ScoreRecord{ID: "other", UserID: "u2", Score: 10, CreatedAt: time.Now()})
	server := newTestServer(t, store)

	resp := doRequest(t, "GET", server.URL+"/scores/me", goodToken, nil)
	defer resp.Body.Close()
	var history []domain.ScoreRecord
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(history) != 1 || history[0].ID != "mine" {
		t.Fatalf("expected only caller's records, got %+v", history)
	}
}
