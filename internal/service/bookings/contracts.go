package bookings

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// BookingRepository интерфейс чтения подтвержденных бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
