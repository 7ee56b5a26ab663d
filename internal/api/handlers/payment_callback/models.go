package payment_callback

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/payment"
)

var errInvalidStatus = errors.New("status must be success or failed")

// PaymentCallbackRequest результат оплаты от провайдера
type PaymentCallbackRequest struct {
	SessionID string     `json:"sessionId"`
	Status    string     `json:"status"`
	PaymentID string     `json:"paymentId"`
	OrderID   string     `json:"orderId"`
	Reason    string     `json:"reason,omitempty"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// ToResult конвертирует запрос в результат оплаты
func (r *PaymentCallbackRequest) ToResult() (payment.Result, error) {
	status := payment.ResultStatus(r.Status)
	if status != payment.ResultSuccess && status != payment.ResultFailed {
		return payment.Result{}, errInvalidStatus
	}

	result := payment.Result{
		Status:    status,
		PaymentID: r.PaymentID,
		OrderID:   r.OrderID,
		Reason:    r.Reason,
	}
	if r.PaidAt != nil {
		result.PaidAt = *r.PaidAt
	}
	return result, nil
}
