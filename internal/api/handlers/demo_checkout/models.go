package demo_checkout

// CheckoutPage данные демо-страницы оплаты
type CheckoutPage struct {
	SessionID   string   `json:"sessionId"`
	OrderID     string   `json:"orderId"`
	Merchant    string   `json:"merchant"`
	Description string   `json:"description"`
	Amount      int64    `json:"amount"` // пайсы
	AmountLabel string   `json:"amountLabel"`
	Currency    string   `json:"currency"`
	PayerName   string   `json:"payerName,omitempty"`
	PayerEmail  string   `json:"payerEmail,omitempty"`
	CompleteURL string   `json:"completeUrl"` // POST с CompleteRequest
	Outcomes    []string `json:"outcomes"`
}

// CompleteRequest завершение демо-оплаты
type CompleteRequest struct {
	OrderID string `json:"orderId"`
	Outcome string `json:"outcome"` // success | failed
}
