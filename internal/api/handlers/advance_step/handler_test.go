package advance_step

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Dispatch(ctx context.Context, sessionID string, ev wizard.Event) (*models.DispatchResult, error) {
	args := m.Called(ctx, sessionID, ev)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DispatchResult), args.Error(1)
}

func serve(svc SessionService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions/{sessionId}/advance", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/sess-1/advance", strings.NewReader(body)))
	return w
}

func TestHandle_WithoutBody(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Dispatch", mock.Anything, "sess-1", wizard.Advance()).Return(&models.DispatchResult{
		Session: &models.SessionView{ID: "sess-1", State: wizard.StateStep2},
	}, nil)

	w := serve(svc, "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandle_TermsNotAccepted(t *testing.T) {
	svc := new(mockSessionService)
	svc.On("Dispatch", mock.Anything, "sess-1", wizard.AdvanceWithTerms(false)).Return(&models.DispatchResult{
		Session: &models.SessionView{ID: "sess-1", State: wizard.StateStep3},
	}, &wizard.TermsError{Message: wizard.MsgAcceptTerms})

	w := serve(svc, `{"termsAccepted":false}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), wizard.MsgAcceptTerms)
	svc.AssertExpectations(t)
}

func TestHandle_InvalidBody(t *testing.T) {
	svc := new(mockSessionService)

	w := serve(svc, `{"termsAccepted":"yes"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}
