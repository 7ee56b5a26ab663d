package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/validation"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

const (
	msgSessionNotFound   = "session not found or expired"
	msgInvalidTransition = "action is not available at the current step"
	msgValidationFailed  = "please correct the highlighted fields"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DispatchErrorResponse ошибка события мастера вместе с актуальным состоянием сессии
type DispatchErrorResponse struct {
	Code        int                 `json:"code"`
	Message     string              `json:"message"`
	Reason      string              `json:"reason,omitempty"`
	FieldErrors map[string]string   `json:"fieldErrors,omitempty"`
	Session     *models.SessionView `json:"session,omitempty"`
	Effects     []wizard.Effect     `json:"effects,omitempty"`
}

// RespondDispatch отвечает на событие мастера.
// Ошибки охранных условий: 400 (поля, слот, условия), 402 (оплата), 409 (переход),
// 503 (запись не сохранена или сервис останавливается), 404 (нет сессии)
func RespondDispatch(w http.ResponseWriter, log Logger, op string, result *models.DispatchResult, err error) {
	if err == nil {
		RespondJSON(w, http.StatusOK, result)
		return
	}

	var (
		verrs      validation.Errors
		verr       *validation.ValidationError
		selErr     *wizard.SelectionError
		termsErr   *wizard.TermsError
		payErr     *payment.PaymentError
		persistErr *payment.PersistenceError
	)

	resp := DispatchErrorResponse{}
	if result != nil {
		resp.Session = result.Session
		resp.Effects = result.Effects
	}

	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		log.Warn("%s - Session not found", op)
		RespondNotFound(w, msgSessionNotFound)
		return

	case errors.Is(err, sessions.ErrClosed):
		log.Warn("%s - Service is shutting down", op)
		RespondServiceUnavailable(w)
		return

	case errors.As(err, &verrs):
		log.Warn("%s - Validation failed: %v", op, err)
		resp.Code, resp.Message, resp.FieldErrors = http.StatusBadRequest, msgValidationFailed, verrs.Fields()

	case errors.As(err, &verr):
		log.Warn("%s - Validation failed: %v", op, err)
		resp.Code, resp.Message = http.StatusBadRequest, verr.Message
		resp.FieldErrors = map[string]string{verr.Field: verr.Message}

	case errors.As(err, &selErr):
		log.Warn("%s - Slot selection rejected: %s", op, selErr.Message)
		resp.Code, resp.Message = http.StatusBadRequest, selErr.Message

	case errors.As(err, &termsErr):
		log.Warn("%s - Terms not accepted", op)
		resp.Code, resp.Message = http.StatusBadRequest, termsErr.Message

	case errors.As(err, &payErr):
		log.Warn("%s - Payment failed: reason=%s", op, payErr.Reason)
		resp.Code, resp.Message, resp.Reason = http.StatusPaymentRequired, payErr.Message, payErr.Reason

	case errors.As(err, &persistErr):
		log.Error("%s - Booking not persisted: booking_id=%s, error=%v", op, persistErr.BookingID, persistErr.Err)
		resp.Code, resp.Message = http.StatusServiceUnavailable, wizard.MsgPersistenceFailed

	case errors.Is(err, wizard.ErrInvalidTransition), errors.Is(err, payment.ErrAlreadyFinalized):
		log.Warn("%s - Invalid transition: %v", op, err)
		resp.Code, resp.Message = http.StatusConflict, msgInvalidTransition

	default:
		log.Error("%s - Failed to dispatch event: %v", op, err)
		RespondInternalError(w)
		return
	}

	RespondJSON(w, resp.Code, resp)
}
