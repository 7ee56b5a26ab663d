package wizard

import "github.com/m04kA/SMC-ConsultationService/internal/payment"

// EventType тип события мастера
type EventType string

const (
	EventEditField      EventType = "edit_field"
	EventValidateField  EventType = "validate_field"
	EventSelectSlot     EventType = "select_slot"
	EventAdvance        EventType = "advance"
	EventBack           EventType = "back"
	EventRetry          EventType = "retry"
	EventPaymentResult  EventType = "payment_result"
	EventPaymentTimeout EventType = "payment_timed_out"
)

// Event событие, поступающее в контроллер
type Event struct {
	Type EventType

	Fields        map[string]string // edit_field
	Field         string            // validate_field
	Date          string            // select_slot
	Time          string            // select_slot
	TermsAccepted bool              // advance на шаге 3
	Result        *payment.Result   // payment_result
	AttemptID     string            // payment_timed_out
}

func EditFields(fields map[string]string) Event {
	return Event{Type: EventEditField, Fields: fields}
}

func ValidateField(name string) Event {
	return Event{Type: EventValidateField, Field: name}
}

func SelectSlot(date, time string) Event {
	return Event{Type: EventSelectSlot, Date: date, Time: time}
}

func Advance() Event {
	return Event{Type: EventAdvance}
}

// AdvanceWithTerms переход с шага 3 с флагом согласия с условиями
func AdvanceWithTerms(accepted bool) Event {
	return Event{Type: EventAdvance, TermsAccepted: accepted}
}

func Back() Event {
	return Event{Type: EventBack}
}

func Retry() Event {
	return Event{Type: EventRetry}
}

func PaymentResult(result payment.Result) Event {
	return Event{Type: EventPaymentResult, Result: &result}
}

func PaymentTimedOut(attemptID string) Event {
	return Event{Type: EventPaymentTimeout, AttemptID: attemptID}
}
