package demo_checkout

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

const (
	opPage     = "GET /payments/demo/{id}"
	opComplete = "POST /payments/demo/{id}"

	outcomeSuccess = "success"
	outcomeFailed  = "failed"

	msgInvalidBody    = "invalid request body"
	msgMissingOrder   = "order is required"
	msgInvalidOutcome = "outcome must be success or failed"
	msgNotFound       = "session not found or expired"
	msgNoPayment      = "no payment is awaited for this session"
	msgOrderMismatch  = "order does not match the current payment"

	declinedReason = "declined_in_demo"
)

type Handler struct {
	service  SessionService
	merchant string
	logger   Logger
}

func NewHandler(service SessionService, merchant string, logger Logger) *Handler {
	return &Handler{
		service:  service,
		merchant: merchant,
		logger:   logger,
	}
}

// Page GET /api/v1/payments/demo/{sessionId}?order=...
// Только читает состояние и возвращает данные страницы оплаты
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	orderID := r.URL.Query().Get("order")

	session, ok := h.awaitingPayment(w, r, opPage, sessionID, orderID)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.page(r, sessionID, orderID, session.Inputs))
}

// Complete POST /api/v1/payments/demo/{sessionId}
// Завершает демо-оплату успехом или отказом
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req CompleteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", opComplete, err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	var result payment.Result
	switch req.Outcome {
	case outcomeSuccess:
		result = payment.Result{
			Status:    payment.ResultSuccess,
			PaymentID: "pay_demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
			OrderID:   req.OrderID,
			PaidAt:    time.Now(),
		}
	case outcomeFailed:
		result = payment.Result{Status: payment.ResultFailed, OrderID: req.OrderID, Reason: declinedReason}
	default:
		handlers.RespondBadRequest(w, msgInvalidOutcome)
		return
	}

	if _, ok := h.awaitingPayment(w, r, opComplete, sessionID, req.OrderID); !ok {
		return
	}

	h.logger.Info("%s - Demo payment %s: session_id=%s, order_id=%s", opComplete, req.Outcome, sessionID, req.OrderID)

	dispatched, err := h.service.CompletePayment(r.Context(), sessionID, result)
	handlers.RespondDispatch(w, h.logger, opComplete, dispatched, err)
}

// awaitingPayment проверяет, что сессия ждет оплату именно этого заказа.
// При отказе ответ уже записан
func (h *Handler) awaitingPayment(w http.ResponseWriter, r *http.Request, op, sessionID, orderID string) (*models.SessionView, bool) {
	if orderID == "" {
		handlers.RespondBadRequest(w, msgMissingOrder)
		return nil, false
	}

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			h.logger.Warn("%s - Session not found: session_id=%s", op, sessionID)
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("%s - Failed to get session: session_id=%s, error=%v", op, sessionID, err)
			handlers.RespondInternalError(w)
		}
		return nil, false
	}

	if session.State != wizard.StateProcessing || session.Payment == nil {
		handlers.RespondConflict(w, msgNoPayment)
		return nil, false
	}
	if session.Payment.OrderID != orderID {
		h.logger.Warn("%s - Order mismatch: session_id=%s, order_id=%s", op, sessionID, orderID)
		handlers.RespondConflict(w, msgOrderMismatch)
		return nil, false
	}

	return session, true
}

func (h *Handler) page(r *http.Request, sessionID, orderID string, inputs map[string]string) *CheckoutPage {
	return &CheckoutPage{
		SessionID:   sessionID,
		OrderID:     orderID,
		Merchant:    h.merchant,
		Description: domain.PaymentDescription,
		Amount:      domain.ConsultationFeeMinor,
		AmountLabel: wizard.FormatRupees(domain.ConsultationFee),
		Currency:    domain.Currency,
		PayerName:   inputs[domain.FieldFullName],
		PayerEmail:  inputs[domain.FieldEmail],
		CompleteURL: r.URL.Path,
		Outcomes:    []string{outcomeSuccess, outcomeFailed},
	}
}
