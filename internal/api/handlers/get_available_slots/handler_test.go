package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Slots(ctx context.Context, sessionID string) (*models.SlotsView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlotsView), args.Error(1)
}

func serve(svc SessionService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions/{sessionId}/slots", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/sess-1/slots", nil))
	return w
}

func TestHandle_ReturnsDays(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Slots", mock.Anything, "sess-1").Return(&models.SlotsView{
		Days: []domain.DaySlots{{
			Date:  time.Date(2024, time.March, 5, 0, 0, 0, 0, domain.Location),
			Times: []types.TimeString{"10:00", "10:30"},
		}},
		Selection: &domain.TimeSlot{Date: "2024-03-05", Time: "10:30"},
	}, nil)

	w := serve(svc)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "IST", resp.TimeZone)
	assert.Equal(t, 30, resp.SlotMinutes)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2024-03-05", resp.Days[0].Date)
	assert.Equal(t, "Tuesday, 5 March 2024", resp.Days[0].DateLabel)
	assert.Equal(t, "Tuesday", resp.Days[0].Weekday)
	assert.Equal(t, []string{"10:00", "10:30"}, resp.Days[0].Times)
	assert.Equal(t, "10:30", resp.SelectedTime)
	svc.AssertExpectations(t)
}

func TestHandle_SessionNotFound(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Slots", mock.Anything, "sess-1").Return(nil, sessions.ErrSessionNotFound)

	w := serve(svc)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), msgSessionNotFound)
}
