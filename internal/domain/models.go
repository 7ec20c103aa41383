package domain

import (
	"fmt"
	"time"
)

// Level selects the operand range and operator set for a game.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// TotalQuestions is the fixed length of a game session.
const TotalQuestions = 10

// Question is a single arithmetic problem. Immutable once generated;
// the answer never leaves the server.
type Question struct {
	A      int    `json:"a"`
	B      int    `json:"b"`
	Op     string `json:"op"`
	Answer int    `json:"answer"`
}

// Render returns the expression shown to the player.
func (q Question) Render() string {
	return fmt.Sprintf("%d %s %d", q.A, q.Op, q.B)
}

// Session is one in-progress or completed game run.
type Session struct {
	UserID        string    `json:"uid"`
	Level         Level     `json:"level"`
	QuestionIndex int       `json:"questionIndex"`
	Score         int       `json:"score"`
	Current       Question  `json:"current"`
	Complete      bool      `json:"complete"`
	StartedAt     time.Time `json:"startedAt"`
}

// ScoreRecord is one completed game appended to the score store.
// Records are immutable and never deleted.
type ScoreRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"uid"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	Score       int       `json:"score"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserRecord is a schemaless document from the users collection. The store
// assigns the "id" key on insert; everything else is caller-provided.
type UserRecord map[string]interface{}

// Identity is the verified subject attached to authenticated requests.
type Identity struct {
	UserID      string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// GameSummary is the frozen outcome of a completed session.
type GameSummary struct {
	Level        Level    `json:"level"`
	Score        int      `json:"score"`
	Total        int      `json:"total"`
	Achievements []string `json:"achievements"`
	Badges       []string `json:"badges"`
}
