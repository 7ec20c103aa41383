package app

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"mathblast/internal/domain"
	"mathblast/internal/game"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
// One session per user; saving replaces any previous run.
type SessionRepository interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, userID string) (domain.Session, bool, error)
	Delete(ctx context.Context, userID string) error
}

// ScoreStore is the append-only backing store for completed games.
type ScoreStore interface {
	Append(ctx context.Context, record domain.ScoreRecord) error
	TopScores(ctx context.Context, limit int) ([]domain.ScoreRecord, error)
	UserHistory(ctx context.Context, userID string, limit int) ([]domain.ScoreRecord, error)
}

// historyWindow bounds the history used for badge derivation.
const historyWindow = 10

// GameService runs arithmetic game sessions and persists their outcomes.
type GameService struct {
	sessions SessionRepository
	scores   ScoreStore
	gen      *game.Generator
	now      func() time.Time
}

func NewGameService(sessions SessionRepository, scores ScoreStore) *GameService {
	return &GameService{
		sessions: sessions,
		scores:   scores,
		gen:      game.NewGenerator(),
		now:      time.Now,
	}
}

// NewGameServiceWithDeps is test-only for deterministic questions and timestamps.
func NewGameServiceWithDeps(sessions SessionRepository, scores ScoreStore, gen *game.Generator, now func() time.Time) *GameService {
	return &GameService{sessions: sessions, scores: scores, gen: gen, now: now}
}

// Start begins a fresh session for the user, replacing any in-progress run.
func (s *GameService) Start(ctx context.Context, who domain.Identity, level domain.Level) (domain.Session, error) {
	q, err := s.gen.Generate(level)
	if err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{
		UserID:    who.UserID,
		Level:     level,
		Current:   q,
		StartedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Answer scores one submission against the current question and advances the
// session. Malformed input is simply wrong, never an error. On the final
// question the run completes: the score is frozen, achievements derived, the
// record appended to the score store, and badges computed from the player's
// prior games.
//
// A summary is returned alongside a non-nil error when the score could not
// be persisted; the game outcome is still valid in that case.
func (s *GameService) Answer(ctx context.Context, who domain.Identity, raw string) (domain.Session, bool, *domain.GameSummary, error) {
	session, ok, err := s.sessions.Get(ctx, who.UserID)
	if err != nil {
		return domain.Session{}, false, nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.Session{}, false, nil, domain.ErrSessionNotFound
	}
	if session.Complete {
		return session, false, nil, domain.ErrSessionComplete
	}

	correct := false
	if value, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && value == session.Current.Answer {
		correct = true
		session.Score++
	}
	session.QuestionIndex++

	if session.QuestionIndex < domain.TotalQuestions {
		q, err := s.gen.Generate(session.Level)
		if err != nil {
			return domain.Session{}, false, nil, err
		}
		session.Current = q
		if err := s.sessions.Save(ctx, session); err != nil {
			return domain.Session{}, false, nil, fmt.Errorf("save session: %w", err)
		}
		return session, correct, nil, nil
	}

	session.Complete = true
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Session{}, false, nil, fmt.Errorf("save session: %w", err)
	}
	summary, err := s.complete(ctx, who, session)
	return session, correct, summary, err
}

// complete freezes the outcome of a finished session. Badges are derived
// from the games played before this one, so history is read before the new
// record is appended.
func (s *GameService) complete(ctx context.Context, who domain.Identity, session domain.Session) (*domain.GameSummary, error) {
	summary := &domain.GameSummary{
		Level:        session.Level,
		Score:        session.Score,
		Total:        domain.TotalQuestions,
		Achievements: game.Achievements(session.Score, domain.TotalQuestions, session.Level),
	}

	history, err := s.scores.UserHistory(ctx, who.UserID, historyWindow)
	if err != nil {
		// Badges are informational; an unreadable history falls back to none.
		log.Printf("history fetch for %s failed: %v", who.UserID, err)
	} else {
		summary.Badges = game.Badges(history, session.Score, domain.TotalQuestions)
	}

	record := domain.ScoreRecord{
		ID:          uuid.New().String(),
		UserID:      who.UserID,
		DisplayName: who.DisplayName,
		Email:       who.Email,
		Score:       session.Score,
		CreatedAt:   s.now(),
	}
	if err := s.scores.Append(ctx, record); err != nil {
		return summary, fmt.Errorf("save score: %w", err)
	}
	return summary, nil
}

// Current returns the user's session, if any.
func (s *GameService) Current(ctx context.Context, who domain.Identity) (domain.Session, error) {
	session, ok, err := s.sessions.Get(ctx, who.UserID)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

// Abandon drops the user's session without recording a score.
func (s *GameService) Abandon(ctx context.Context, who domain.Identity) error {
	return s.sessions.Delete(ctx, who.UserID)
}
