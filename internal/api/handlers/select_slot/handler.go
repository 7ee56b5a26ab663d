package select_slot

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgMissingSlot        = "date and time are required"
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

// Handle PUT /api/v1/sessions/{sessionId}/slot
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /sessions/{id}/slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.Date == "" || req.Time == "" {
		handlers.RespondBadRequest(w, msgMissingSlot)
		return
	}

	result, err := h.service.Dispatch(r.Context(), sessionID, wizard.SelectSlot(req.Date, req.Time))
	handlers.RespondDispatch(w, h.logger, "PUT /sessions/{id}/slot", result, err)
}
