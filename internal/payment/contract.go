package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// CheckoutClient открывает форму оплаты у провайдера
type CheckoutClient interface {
	CreateCheckout(ctx context.Context, intent Intent) (*Checkout, error)
}

// BookingRepository идемпотентное сохранение записей о бронировании.
// GetByID возвращает ошибку, оборачивающую domain.ErrBookingNotFound, если записи нет
type BookingRepository interface {
	Save(ctx context.Context, record *domain.BookingRecord) error
	GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error)
}

// Notifier отправка подтверждения бронирования
type Notifier interface {
	Notify(ctx context.Context, record *domain.BookingRecord) error
}

// IDGenerator генератор идентификаторов бронирований.
// Один и тот же paymentId всегда дает один и тот же идентификатор
type IDGenerator interface {
	NewBookingID(paymentID string) string
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// bookingNamespace пространство имен для UUID v5 идентификаторов бронирований
var bookingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:vexa:consultation:booking"))

// UUIDGenerator генерирует идентификаторы вида VEXA-<uuid v5 от paymentId>.
// Повторный колбэк по той же оплате получает тот же идентификатор
type UUIDGenerator struct{}

// NewBookingID возвращает идентификатор бронирования для оплаты
func (UUIDGenerator) NewBookingID(paymentID string) string {
	id := uuid.NewSHA1(bookingNamespace, []byte(paymentID))
	return domain.BookingIDPrefix + "-" + strings.ToUpper(id.String())
}
