package update_fields

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgNoFields           = "fields must not be empty"
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

// Handle PATCH /api/v1/sessions/{sessionId}/fields
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req UpdateFieldsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /sessions/{id}/fields - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if len(req.Fields) == 0 {
		handlers.RespondBadRequest(w, msgNoFields)
		return
	}

	result, err := h.service.Dispatch(r.Context(), sessionID, wizard.EditFields(req.Fields))
	handlers.RespondDispatch(w, h.logger, "PATCH /sessions/{id}/fields", result, err)
}
