package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

const msgSessionNotFound = "session not found or expired"

// SessionService проверка существования сессии перед подпиской
type SessionService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionView, error)
}

// Handler подписка на события сессии
type Handler struct {
	hub      *Hub
	service  SessionService
	upgrader websocket.Upgrader
	logger   Logger
}

// NewHandler создает websocket handler. checkOrigin nil разрешает любой origin
func NewHandler(hub *Hub, service SessionService, checkOrigin func(r *http.Request) bool, logger Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/events
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if _, err := h.service.Get(r.Context(), sessionID); err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			handlers.RespondNotFound(w, msgSessionNotFound)
			return
		}
		h.logger.Error("GET /sessions/{id}/events - Failed to get session: session_id=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("GET /sessions/{id}/events - Upgrade failed: session_id=%s, error=%v", sessionID, err)
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		sessionID: sessionID,
	}
	if !h.hub.subscribe(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
