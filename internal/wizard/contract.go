package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
)

// SlotSource генератор доступных слотов
type SlotSource interface {
	Slots(now time.Time) []domain.DaySlots
	Contains(now time.Time, slot domain.TimeSlot) bool
}

// PaymentHandler протокол оплаты
type PaymentHandler interface {
	InitiatePayment(ctx context.Context, sessionID string, draft *domain.Draft) (*payment.Checkout, error)
	OnPaymentResult(ctx context.Context, draft *domain.Draft, result payment.Result) (*domain.BookingRecord, error)
	PersistAndNotify(ctx context.Context, record *domain.BookingRecord) error
}

// AttemptIDGenerator генератор идентификаторов попыток оплаты
type AttemptIDGenerator func() string

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
