package bookings

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/booking"
	bookingDocRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/bookingdoc"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	args := m.Called(ctx, bookingID)
	if rec, ok := args.Get(0).(*domain.BookingRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func sampleRecord() *domain.BookingRecord {
	return &domain.BookingRecord{
		BookingID: "VEXA-0001",
		Details: domain.StepRecord{
			domain.FieldFullName: "Asha Rao",
			domain.FieldEmail:    "asha@studio.in",
			domain.FieldOrgName:  "Rao Studios",
		},
		Slot: domain.SelectedSlot{
			Date:     "2024-03-05",
			Time:     "10:30",
			DateTime: time.Date(2024, time.March, 5, 10, 30, 0, 0, domain.Location),
		},
		Payment: domain.PaymentMetadata{PaymentID: "pay_1", Amount: 3000, Currency: "INR"},
		Status:  domain.StatusConfirmed,
	}
}

func TestService_GetByID(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, "VEXA-0001").Return(sampleRecord(), nil)

	resp, err := NewService(repo, logger.NewNop()).GetByID(context.Background(), " VEXA-0001 ")
	require.NoError(t, err)

	assert.Equal(t, "VEXA-0001", resp.BookingID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "Asha Rao", resp.FullName)
	assert.Equal(t, "Rao Studios", resp.Organization)
	assert.Equal(t, "Tuesday, 5 March 2024", resp.DateLabel)
	assert.Equal(t, "10:30", resp.Time)
	assert.Equal(t, "₹3,000", resp.AmountLabel)
	assert.Equal(t, "/confirmation?booking=VEXA-0001", resp.ConfirmationPath)
	repo.AssertExpectations(t)
}

func TestService_GetByID_NotFound(t *testing.T) {
	for name, repoErr := range map[string]error{
		"postgres": bookingRepo.ErrBookingNotFound,
		"mongo":    bookingDocRepo.ErrBookingNotFound,
	} {
		t.Run(name, func(t *testing.T) {
			repo := &mockRepo{}
			repo.On("GetByID", mock.Anything, "VEXA-missing").Return(nil, repoErr)

			_, err := NewService(repo, logger.NewNop()).GetByID(context.Background(), "VEXA-missing")
			assert.ErrorIs(t, err, ErrBookingNotFound)
		})
	}
}

func TestService_GetByID_RepositoryError(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetByID", mock.Anything, "VEXA-0001").
		Return(nil, fmt.Errorf("%w: boom", bookingRepo.ErrScanRow))

	_, err := NewService(repo, logger.NewNop()).GetByID(context.Background(), "VEXA-0001")
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, errors.Is(err, ErrBookingNotFound))
}

func TestService_GetByID_EmptyID(t *testing.T) {
	_, err := NewService(&mockRepo{}, logger.NewNop()).GetByID(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
