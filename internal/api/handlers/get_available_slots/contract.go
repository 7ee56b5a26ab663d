package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

type SessionService interface {
	Slots(ctx context.Context, sessionID string) (*models.SlotsView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
