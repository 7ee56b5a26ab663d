package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition событие недопустимо в текущем состоянии
	ErrInvalidTransition = errors.New("wizard: invalid transition")

	// ErrUnknownEvent неизвестный тип события
	ErrUnknownEvent = errors.New("wizard: unknown event")
)

// Сообщения, которые видит пользователь
const (
	MsgSelectSlot        = "Please select a date and time for your consultation"
	MsgSlotUnavailable   = "The selected time slot is not available"
	MsgAcceptTerms       = "Please accept the terms and conditions to proceed"
	MsgPaymentTimeout    = "Payment was not completed in time. Please try again."
	MsgPersistenceFailed = "Your payment was received but we could not save your booking yet. Please retry."
	MsgAlreadyConfirmed  = "This booking is already confirmed."
)

// SelectionError слот не выбран или недоступен
type SelectionError struct {
	Message string
}

func (e *SelectionError) Error() string {
	return "wizard: selection: " + e.Message
}

// TermsError условия не приняты
type TermsError struct {
	Message string
}

func (e *TermsError) Error() string {
	return "wizard: terms: " + e.Message
}

func invalidTransition(from State, ev EventType) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, ev, from)
}
