package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type message struct {
	sessionID string
	data      []byte
}

// Hub рассылает события переходов подписчикам сессии
type Hub struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	mu         sync.RWMutex
	logger     Logger
}

// NewHub создает hub; обработка начинается после Run
func NewHub(logger Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run основной цикл hub до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[*Client]bool)
			}
			h.clients[client.sessionID][client] = true
			h.mu.Unlock()
			h.logger.Info("WebSocket: client subscribed: session_id=%s", client.sessionID)

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients[msg.sessionID]))
			for c := range h.clients[msg.sessionID] {
				clients = append(clients, c)
			}
			h.mu.RUnlock()

			for _, c := range clients {
				select {
				case c.send <- msg.data:
				default:
					// Медленный клиент отключается
					h.remove(c)
				}
			}
		}
	}
}

// Publish реализует sessions.EventPublisher. Не блокирует вызывающего
func (h *Hub) Publish(sessionID string, event *models.TransitionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("WebSocket: failed to marshal event: session_id=%s, error=%v", sessionID, err)
		return
	}

	select {
	case h.broadcast <- message{sessionID: sessionID, data: data}:
	default:
		h.logger.Warn("WebSocket: broadcast queue full, event dropped: session_id=%s", sessionID)
	}
}

// subscribe регистрирует клиента; false, если hub уже остановлен
func (h *Hub) subscribe(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ClientCount количество подписчиков сессии
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[c.sessionID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.sessionID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for c := range clients {
			close(c.send)
		}
		delete(h.clients, id)
	}
}
