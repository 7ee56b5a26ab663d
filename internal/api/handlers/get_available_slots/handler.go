package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
)

const msgSessionNotFound = "session not found or expired"

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/slots
// Рабочие дни на горизонте планирования, слоты по 30 минут с 10:00 до 18:00 IST
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.service.Slots(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id}/slots - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("GET /sessions/{id}/slots - Failed to get slots: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromSlotsView(view)

	h.logger.Info("GET /sessions/{id}/slots - Slots calculated: session_id=%s, days=%d", sessionID, len(response.Days))
	handlers.RespondJSON(w, http.StatusOK, response)
}
