package retry_step

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

type SessionService interface {
	Dispatch(ctx context.Context, sessionID string, ev wizard.Event) (*models.DispatchResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
