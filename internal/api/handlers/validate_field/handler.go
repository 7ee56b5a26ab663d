package validate_field

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

const (
	op                    = "POST /sessions/{id}/fields/{field}/validate"
	msgInvalidRequestBody = "invalid request body"
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

// Handle POST /api/v1/sessions/{sessionId}/fields/{field}/validate
// Проверка поля при потере фокуса. Если передано value, сначала сохраняет его
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, field := vars["sessionId"], vars["field"]

	var req ValidateFieldRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.Value != nil {
		result, err := h.service.Dispatch(r.Context(), sessionID, wizard.EditFields(map[string]string{field: *req.Value}))
		if err != nil {
			handlers.RespondDispatch(w, h.logger, op, result, err)
			return
		}
	}

	result, err := h.service.Dispatch(r.Context(), sessionID, wizard.ValidateField(field))
	handlers.RespondDispatch(w, h.logger, op, result, err)
}
