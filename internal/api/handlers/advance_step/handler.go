package advance_step

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

const msgInvalidRequestBody = "invalid request body"

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

// Handle POST /api/v1/sessions/{sessionId}/advance
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req AdvanceRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/advance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ev := wizard.Advance()
	if req.TermsAccepted != nil {
		ev = wizard.AdvanceWithTerms(*req.TermsAccepted)
	}

	result, err := h.service.Dispatch(r.Context(), sessionID, ev)
	handlers.RespondDispatch(w, h.logger, "POST /sessions/{id}/advance", result, err)
}
