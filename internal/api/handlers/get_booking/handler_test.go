package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ConsultationService/internal/service/bookings"
	"github.com/m04kA/SMC-ConsultationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) GetByID(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

func serve(svc BookingService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name       string
		bookingID  string
		resp       *models.BookingResponse
		err        error
		wantStatus int
	}{
		{
			name:       "found",
			bookingID:  "VEXA-0190",
			resp:       &models.BookingResponse{BookingID: "VEXA-0190", Status: "confirmed"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "not found",
			bookingID:  "VEXA-missing",
			err:        bookings.ErrBookingNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid id",
			bookingID:  "%20",
			err:        bookings.ErrInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "storage failure",
			bookingID:  "VEXA-0190",
			err:        bookings.ErrInternal,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockBookingService)
			if tt.resp != nil {
				svc.On("GetByID", mock.Anything, mock.Anything).Return(tt.resp, nil)
			} else {
				svc.On("GetByID", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := serve(svc, "/api/v1/bookings/"+tt.bookingID)

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
