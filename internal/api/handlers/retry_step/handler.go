package retry_step

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

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

// Handle POST /api/v1/sessions/{sessionId}/retry
// После ошибки оплаты возвращает на шаг 3; если запись не сохранилась, повторяет только сохранение
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	result, err := h.service.Dispatch(r.Context(), sessionID, wizard.Retry())
	if err == nil {
		h.logger.Info("POST /sessions/{id}/retry - session_id=%s, state=%s", sessionID, result.Session.State)
	}
	handlers.RespondDispatch(w, h.logger, "POST /sessions/{id}/retry", result, err)
}
