package payment_callback

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	op                    = "POST /payments/callback"
	msgInvalidRequestBody = "invalid request body"
	msgMissingSessionID   = "sessionId is required"
	msgInvalidStatus      = "status must be success or failed"
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

// Handle POST /api/v1/payments/callback
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.SessionID == "" {
		handlers.RespondBadRequest(w, msgMissingSessionID)
		return
	}

	result, err := req.ToResult()
	if err != nil {
		h.logger.Warn("%s - Invalid status: session_id=%s, status=%q", op, req.SessionID, req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	h.logger.Info("%s - session_id=%s, status=%s, payment_id=%s, order_id=%s",
		op, req.SessionID, result.Status, result.PaymentID, result.OrderID)

	dispatched, err := h.service.CompletePayment(r.Context(), req.SessionID, result)
	handlers.RespondDispatch(w, h.logger, op, dispatched, err)
}
