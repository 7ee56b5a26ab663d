package demo_checkout

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

type SessionService interface {
	Get(ctx context.Context, sessionID string) (*models.SessionView, error)
	CompletePayment(ctx context.Context, sessionID string, result payment.Result) (*models.DispatchResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
