package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyFinalized возвращается, если по черновику уже создана запись с другим платежом
	ErrAlreadyFinalized = errors.New("payment: draft already finalized")

	// ErrDraftIncomplete возвращается, если в черновике не хватает данных для записи
	ErrDraftIncomplete = errors.New("payment: draft incomplete")

	// ErrCheckoutUnavailable возвращается, если не удалось открыть форму оплаты
	ErrCheckoutUnavailable = errors.New("payment: checkout unavailable")

	// ErrTimeout возвращается, если результат оплаты не пришел вовремя
	ErrTimeout = errors.New("payment: timed out waiting for result")
)

// Причины неуспешной оплаты
const (
	ReasonDeclined            = "declined"
	ReasonTimeout             = "timeout"
	ReasonMissingPaymentID    = "missing_payment_id"
	ReasonOrderMismatch       = "order_mismatch"
	ReasonCheckoutUnavailable = "checkout_unavailable"
)

// MsgPaymentFailed сообщение пользователю при неуспешной оплате
const MsgPaymentFailed = "Payment failed. Please try again."

// PaymentError оплата не прошла. Запись о бронировании не создается
type PaymentError struct {
	Reason  string
	Message string
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("payment failed (%s)", e.Reason)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

func newPaymentError(reason string, err error) *PaymentError {
	return &PaymentError{Reason: reason, Message: MsgPaymentFailed, Err: err}
}

// PersistenceError запись создана, но не сохранена. Повтор сохраняет ту же запись
type PersistenceError struct {
	BookingID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist booking %s: %v", e.BookingID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError уведомление не отправлено. Только логируется
type NotificationError struct {
	BookingID string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify booking %s: %v", e.BookingID, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
