package wizard

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
)

// EffectKind инструкция для слоя отображения
type EffectKind string

const (
	EffectShowStep         EffectKind = "show_step"
	EffectShowFieldErrors  EffectKind = "show_field_errors"
	EffectShowMessage      EffectKind = "show_message"
	EffectRenderSlots      EffectKind = "render_slots"
	EffectRenderSummary    EffectKind = "render_summary"
	EffectOpenCheckout     EffectKind = "open_checkout"
	EffectAwaitPayment     EffectKind = "await_payment"
	EffectShowConfirmation EffectKind = "show_confirmation"
)

// Effect результат обработки события, не зависящий от UI
type Effect struct {
	Kind EffectKind `json:"kind"`

	Step        int               `json:"step,omitempty"`
	Progress    float64           `json:"progress,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Message     string            `json:"message,omitempty"`
	Slots       []domain.DaySlots `json:"slots,omitempty"`
	Summary     *Summary          `json:"summary,omitempty"`
	Checkout    *payment.Checkout `json:"checkout,omitempty"`
	AttemptID   string            `json:"attemptId,omitempty"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	BookingID   string            `json:"bookingId,omitempty"`
	RedirectURL string            `json:"redirectUrl,omitempty"`
}

func showStep(s State) Effect {
	return Effect{Kind: EffectShowStep, Step: s.Step(), Progress: s.Progress()}
}

func showFieldErrors(errs map[string]string) Effect {
	copied := make(map[string]string, len(errs))
	for k, v := range errs {
		copied[k] = v
	}
	return Effect{Kind: EffectShowFieldErrors, FieldErrors: copied}
}

func showMessage(msg string) Effect {
	return Effect{Kind: EffectShowMessage, Message: msg}
}

func renderSlots(days []domain.DaySlots) Effect {
	return Effect{Kind: EffectRenderSlots, Slots: days}
}

func renderSummary(summary *Summary) Effect {
	return Effect{Kind: EffectRenderSummary, Summary: summary}
}

func openCheckout(c *payment.Checkout) Effect {
	return Effect{Kind: EffectOpenCheckout, Checkout: c}
}

func awaitPayment(attemptID string, deadline time.Time) Effect {
	return Effect{Kind: EffectAwaitPayment, AttemptID: attemptID, Deadline: &deadline}
}

func showConfirmation(bookingID string) Effect {
	return Effect{
		Kind:        EffectShowConfirmation,
		BookingID:   bookingID,
		RedirectURL: ConfirmationURL(bookingID),
	}
}

// ConfirmationURL адрес страницы подтверждения
func ConfirmationURL(bookingID string) string {
	return domain.ConfirmationPath + "?" + domain.ConfirmationBookingQueryParam + "=" + bookingID
}

// FindEffect возвращает первый эффект указанного вида
func FindEffect(effects []Effect, kind EffectKind) (Effect, bool) {
	for _, e := range effects {
		if e.Kind == kind {
			return e, true
		}
	}
	return Effect{}, false
}
