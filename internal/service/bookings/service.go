package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	bookingDocRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/bookingdoc"
	"github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
)

// Service сервис чтения подтвержденных бронирований (страница подтверждения)
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по booking_id
func (s *Service) GetByID(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, fmt.Errorf("%w: empty booking id", ErrInvalidInput)
	}

	s.logger.Info("GetByID: fetching booking_id=%s", bookingID)

	record, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) || errors.Is(err, bookingDocRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking_id=%s not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking_id=%s: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(record), nil
}
