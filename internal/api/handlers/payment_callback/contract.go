package payment_callback

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

type SessionService interface {
	CompletePayment(ctx context.Context, sessionID string, result payment.Result) (*models.DispatchResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
