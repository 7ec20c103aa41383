package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"mathblast/internal/app"
	"mathblast/internal/auth"
	"mathblast/internal/domain"
)

// PlayHandler runs game sessions over a websocket. The route sits behind
// the auth middleware; browser clients pass the bearer token as a "token"
// query parameter since they cannot set headers on the upgrade request.
type PlayHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewPlayHandler(service *app.GameService) *PlayHandler {
	return &PlayHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Level domain.Level `json:"level"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type questionPayload struct {
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Question string `json:"question"`
	Score    int    `json:"score"`
}

type answerResult struct {
	Correct bool `json:"correct"`
	Score   int  `json:"score"`
	Index   int  `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the connection and drives one player's game loop.
// Gameplay is strictly sequential per connection; the session itself lives
// in the session store, so a dropped connection can resume mid-game.
func (h *PlayHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid start payload")
				continue
			}
			session, err := h.service.Start(r.Context(), identity, payload.Level)
			if err != nil {
				h.sendError(conn, err.Error())
				continue
			}
			h.sendQuestion(conn, session)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.sendError(conn, "invalid answer payload")
				continue
			}
			session, correct, summary, err := h.service.Answer(r.Context(), identity, payload.Answer)
			if err != nil && summary == nil {
				h.sendError(conn, err.Error())
				continue
			}
			_ = conn.WriteJSON(outboundMessage[answerResult]{Type: "answerResult", Payload: answerResult{
				Correct: correct,
				Score:   session.Score,
				Index:   session.QuestionIndex,
			}})
			if summary != nil {
				if err != nil {
					// Score persistence failed; the outcome still stands.
					log.Printf("score save for %s failed: %v", identity.UserID, err)
					h.sendError(conn, "score could not be saved")
				}
				_ = conn.WriteJSON(outboundMessage[domain.GameSummary]{Type: "summary", Payload: *summary})
				continue
			}
			h.sendQuestion(conn, session)
		case "resume":
			session, err := h.service.Current(r.Context(), identity)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					h.sendError(conn, "no game in progress")
				} else {
					h.sendError(conn, err.Error())
				}
				continue
			}
			h.sendQuestion(conn, session)
		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

func (h *PlayHandler) sendQuestion(conn *websocket.Conn, session domain.Session) {
	_ = conn.WriteJSON(outboundMessage[questionPayload]{Type: "question", Payload: questionPayload{
		Index:    session.QuestionIndex,
		Total:    domain.TotalQuestions,
		Question: session.Current.Render(),
		Score:    session.Score,
	}})
}

func (h *PlayHandler) sendError(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}})
}
