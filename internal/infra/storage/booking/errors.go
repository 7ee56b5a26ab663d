package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("booking.repository: %w", domain.ErrBookingNotFound)

	// ErrBookingConflict возвращается, когда под тем же booking_id уже сохранена другая запись
	ErrBookingConflict = errors.New("booking.repository: booking id conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
