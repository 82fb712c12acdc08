// Package ws provides the realtime interview channel over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/coder/websocket"
	"github.com/interviewsim/backend/internal/audio"
	"github.com/interviewsim/backend/internal/domain"
	"github.com/interviewsim/backend/internal/identity"
	"github.com/interviewsim/backend/internal/interview"
)

// welcomeMessage greets a freshly connected candidate.
const welcomeMessage = "Welcome to the interview simulator!"

// Handler upgrades connections and runs the interview event loop.
type Handler struct {
	svc           *interview.Service
	registry      *interview.Registry
	allowedOrigin string
	isDev         bool
}

// NewHandler creates a new WebSocket interview handler.
func NewHandler(svc *interview.Service, registry *interview.Registry, allowedOrigin string, isDev bool) *Handler {
	return &Handler{
		svc:           svc,
		registry:      registry,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// clientMessage is an inbound text event from the candidate.
type clientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// serverEvent is an outbound event to the candidate. Exactly one of Data,
// Text, or Error is set depending on the event type.
type serverEvent struct {
	Type  string `json:"type"`
	Data  string `json:"data,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	candidateID := identity.CandidateIDFromContext(r.Context())
	slog.Info("WebSocket connection request", "candidate_id", candidateID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "candidate_id", candidateID)
		return
	}
	defer func() {
		if closeErr := conn.Close(websocket.StatusNormalClosure, "interview ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "candidate_id", candidateID)
		}
	}()

	// Audio frames can be large; the default read limit is far too small.
	// Keep the limit well above the audio cap so oversized uploads reach
	// the size check and get a structured error instead of a 1009 close.
	conn.SetReadLimit(2 * audio.MaxBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := h.registry.GetOrCreate(candidateID)

	h.writeEvent(ctx, conn, serverEvent{Type: "welcome", Data: welcomeMessage})

	question, err := h.svc.StartInterview(ctx, sess)
	if err != nil {
		slog.Error("Failed to generate opening question", "candidate_id", candidateID, "error", err)
		h.writeEvent(ctx, conn, serverEvent{
			Type:  "interview_question",
			Error: "Failed to generate question. Please try again.",
		})
	} else {
		h.writeEvent(ctx, conn, serverEvent{Type: "interview_question", Data: question})
	}

	h.readLoop(ctx, conn, sess, candidateID)

	// A scored session is finished; drop it so the registry does not grow
	// for the lifetime of the process. Unscored sessions stay so a
	// reconnecting candidate resumes where they left off.
	if sess.State() == domain.StateScored {
		h.registry.Remove(candidateID)
	}
	slog.Info("Interview session ended", "candidate_id", candidateID)
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, sess *interview.Session, candidateID string) {
	for {
		msgType, message, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "candidate_id", candidateID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "candidate_id", candidateID)
			}
			return
		}

		switch msgType {
		case websocket.MessageBinary:
			h.handleAudio(ctx, conn, sess, candidateID, message)
		case websocket.MessageText:
			var msg clientMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Error: "invalid message"})
				continue
			}

			switch msg.Type {
			case "answer":
				h.handleText(ctx, conn, sess, candidateID, msg.Text)
			case "ping":
				h.writeEvent(ctx, conn, serverEvent{Type: "pong"})
			default:
				slog.Debug("Unknown message type", "type", msg.Type, "candidate_id", candidateID)
			}
		}
	}
}

// handleAudio spools the audio to a temp file, feeds it through the answer
// pipeline, and guarantees the temp file is removed on every exit path.
func (h *Handler) handleAudio(ctx context.Context, conn *websocket.Conn, sess *interview.Session, candidateID string, data []byte) {
	slog.Info("Received audio answer", "candidate_id", candidateID, "size", len(data))

	path, cleanup, err := audio.Spool(data)
	if err != nil {
		if errors.Is(err, audio.ErrTooLarge) {
			h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Error: err.Error()})
			return
		}
		slog.Error("Failed to spool audio", "candidate_id", candidateID, "error", err)
		h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Error: "Failed to process audio. Please try again."})
		return
	}
	defer cleanup()

	spooled, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read spooled audio", "candidate_id", candidateID, "error", err)
		h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Error: "Failed to process audio. Please try again."})
		return
	}

	response, err := h.svc.HandleAnswer(ctx, sess, "", spooled)
	if err != nil {
		h.answerError(ctx, conn, candidateID, err)
		return
	}
	h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Text: response})
}

func (h *Handler) handleText(ctx context.Context, conn *websocket.Conn, sess *interview.Session, candidateID string, text string) {
	if text == "" {
		h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Error: "empty answer"})
		return
	}

	response, err := h.svc.HandleAnswer(ctx, sess, text, nil)
	if err != nil {
		h.answerError(ctx, conn, candidateID, err)
		return
	}
	h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Text: response})
}

func (h *Handler) answerError(ctx context.Context, conn *websocket.Conn, candidateID string, err error) {
	if errors.Is(err, interview.ErrNoActiveQuestion) {
		h.writeEvent(ctx, conn, serverEvent{Type: "ai_response", Error: "No active question. Reconnect to start an interview."})
		return
	}
	slog.Error("Failed to generate follow-up", "candidate_id", candidateID, "error", err)
	h.writeEvent(ctx, conn, serverEvent{
		Type:  "ai_response",
		Error: "Failed to process your answer and generate a fallback response. Please try again.",
	})
}

func (h *Handler) writeEvent(ctx context.Context, conn *websocket.Conn, event serverEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal event", "type", event.Type, "error", err)
		return
	}
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		slog.Debug("WebSocket write error", "type", event.Type, "error", err)
	}
}
