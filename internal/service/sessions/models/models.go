package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

// PaymentView открытая попытка оплаты
type PaymentView struct {
	AttemptID   string    `json:"attemptId"`
	OrderID     string    `json:"orderId"`
	CheckoutURL string    `json:"checkoutUrl"`
	Deadline    time.Time `json:"deadline"`
}

// SessionView состояние сессии для клиента
type SessionView struct {
	ID              string            `json:"id"`
	State           wizard.State      `json:"state"`
	Step            int               `json:"step"`
	Progress        float64           `json:"progress"`
	Inputs          map[string]string `json:"inputs"`
	FieldErrors     map[string]string `json:"fieldErrors,omitempty"`
	Selection       *domain.TimeSlot  `json:"selection,omitempty"`
	Summary         *wizard.Summary   `json:"summary,omitempty"`
	Payment         *PaymentView      `json:"payment,omitempty"`
	BookingID       string            `json:"bookingId,omitempty"`
	ConfirmationURL string            `json:"confirmationUrl,omitempty"`
	PersistPending  bool              `json:"persistPending,omitempty"`
	Error           string            `json:"error,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// DispatchResult результат обработки события: новое состояние и эффекты
type DispatchResult struct {
	Session *SessionView    `json:"session"`
	Effects []wizard.Effect `json:"effects"`
}

// SlotsView доступные слоты и текущий выбор
type SlotsView struct {
	Days      []domain.DaySlots `json:"days"`
	Selection *domain.TimeSlot  `json:"selection,omitempty"`
}

// TransitionEvent событие для подписчиков сессии (websocket)
type TransitionEvent struct {
	SessionID string          `json:"sessionId"`
	Event     string          `json:"event"`
	From      wizard.State    `json:"from"`
	To        wizard.State    `json:"to"`
	Effects   []wizard.Effect `json:"effects,omitempty"`
	Error     string          `json:"error,omitempty"`
	At        time.Time       `json:"at"`
}

// FromSession собирает представление сессии
func FromSession(s *wizard.Session) *SessionView {
	view := &SessionView{
		ID:             s.ID,
		State:          s.State,
		Step:           s.State.Step(),
		Progress:       s.State.Progress(),
		Inputs:         copyMap(s.Inputs),
		FieldErrors:    copyMap(s.FieldErrors),
		PersistPending: s.PersistPending,
		Error:          s.LastError,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	if s.Selection != nil {
		sel := *s.Selection
		view.Selection = &sel
	}

	switch s.State {
	case wizard.StateStep3, wizard.StateProcessing, wizard.StateFailed:
		if s.Draft != nil && s.Draft.Slot != nil {
			view.Summary = wizard.BuildSummary(s.Draft)
		}
	}

	if s.Payment != nil && s.State == wizard.StateProcessing {
		view.Payment = &PaymentView{
			AttemptID:   s.Payment.ID,
			OrderID:     s.Payment.OrderID,
			CheckoutURL: s.Payment.CheckoutURL,
			Deadline:    s.Payment.Deadline,
		}
	}

	if id := s.BookingID(); id != "" && s.State == wizard.StateConfirmed {
		view.BookingID = id
		view.ConfirmationURL = wizard.ConfirmationURL(id)
	}

	return view
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
