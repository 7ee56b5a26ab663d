package payment

import "time"

// Prefill данные покупателя для формы оплаты
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Intent параметры оплаты, которые передаются провайдеру
type Intent struct {
	SessionID   string  `json:"sessionId"`
	Amount      int64   `json:"amount"` // в минимальных единицах (пайсы)
	Currency    string  `json:"currency"`
	Merchant    string  `json:"merchant"`
	Description string  `json:"description"`
	Prefill     Prefill `json:"prefill"`
}

// Checkout открытая форма оплаты
type Checkout struct {
	URL     string `json:"url"`
	OrderID string `json:"orderId"`
	Intent  Intent `json:"intent"`
}

// ResultStatus исход оплаты по данным провайдера
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultFailed  ResultStatus = "failed"
)

// Result результат оплаты, пришедший из callback провайдера
type Result struct {
	Status    ResultStatus `json:"status"`
	PaymentID string       `json:"paymentId"`
	OrderID   string       `json:"orderId"`
	Reason    string       `json:"reason,omitempty"`
	PaidAt    time.Time    `json:"paidAt,omitempty"`
}

// IsSuccess true для успешной оплаты
func (r Result) IsSuccess() bool {
	return r.Status == ResultSuccess
}
