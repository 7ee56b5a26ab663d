package go_back

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

// Handle POST /api/v1/sessions/{sessionId}/back
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Dispatch(r.Context(), mux.Vars(r)["sessionId"], wizard.Back())
	handlers.RespondDispatch(w, h.logger, "POST /sessions/{id}/back", result, err)
}
