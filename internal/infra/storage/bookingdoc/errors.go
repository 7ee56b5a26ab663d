package bookingdoc

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда документ бронирования не найден
	ErrBookingNotFound = fmt.Errorf("bookingdoc.repository: %w", domain.ErrBookingNotFound)

	// ErrBookingConflict возвращается, когда под тем же booking_id уже сохранен другой документ
	ErrBookingConflict = errors.New("bookingdoc.repository: booking id conflict")

	// ErrInsert возвращается при ошибке записи документа
	ErrInsert = errors.New("bookingdoc.repository: failed to insert document")

	// ErrFind возвращается при ошибке чтения документа
	ErrFind = errors.New("bookingdoc.repository: failed to find document")

	// ErrConnect возвращается, если не удалось подключиться к MongoDB
	ErrConnect = errors.New("bookingdoc.repository: failed to connect")
)
