package auth

import (
	"net/http/httptest"
	"testing"
)

func TestBearerTokenFromHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/leaderboard", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	if got := BearerToken(r); got != "abc123" {
		t.Fatalf("expected header token, got %q", got)
	}
}

func TestBearerTokenQueryOnlyOnUpgrade(t *testing.T) {
	// Plain requests never read the query parameter.
	r := httptest.NewRequest("GET", "/leaderboard?token=abc123", nil)
	if got := BearerToken(r); got != "" {
		t.Fatalf("expected no token on plain request, got %q", got)
	}

	ws := httptest.NewRequest("GET", "/play?token=abc123", nil)
	ws.Header.Set("Upgrade", "websocket")
	ws.Header.Set("Connection", "Upgrade")
	if got := BearerToken(ws); got != "abc123" {
		t.Fatalf("expected query token on upgrade request, got %q", got)
	}
}

func TestBearerTokenHeaderWinsOverQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/play?token=from-query", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	r.Header.Set("Upgrade", "websocket")
	r.Header.Set("Connection", "Upgrade")
	if got := BearerToken(r); got != "from-header" {
		t.Fatalf("expected header to win, got %q", got)
	}
}
