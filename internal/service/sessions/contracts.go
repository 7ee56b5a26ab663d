package sessions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

// SessionStore хранилище сессий мастера
type SessionStore interface {
	Get(ctx context.Context, id string) (*wizard.Session, error)
	Save(ctx context.Context, s *wizard.Session) error
	Delete(ctx context.Context, id string) error
}

// Dispatcher конечный автомат мастера
type Dispatcher interface {
	Dispatch(ctx context.Context, s *wizard.Session, ev wizard.Event) (wizard.State, []wizard.Effect, error)
}

// SlotSource генератор доступных слотов
type SlotSource interface {
	Slots(now time.Time) []domain.DaySlots
}

// EventPublisher рассылка событий переходов подписчикам сессии
type EventPublisher interface {
	Publish(sessionID string, event *models.TransitionEvent)
}

// MetricsRecorder метрики мастера и оплаты
type MetricsRecorder interface {
	ObserveTransition(from, to string)
	ObservePaymentResult(outcome string)
	IncBookingsConfirmed()
	SetPendingPayments(n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
