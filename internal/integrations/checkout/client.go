package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/payment"
)

// DemoPath путь демо-страницы оплаты, {sessionId} подставляется клиентом
const DemoPath = "/api/v1/payments/demo/"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// DemoClient встроенный провайдер оплаты: выдает order id и ссылку на демо-страницу,
// которая завершает оплату через callback
type DemoClient struct {
	baseURL string
	log     Logger
}

// NewDemoClient создает клиент демо-оплаты
func NewDemoClient(publicBaseURL string, log Logger) *DemoClient {
	return &DemoClient{
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log,
	}
}

// CreateCheckout открывает форму оплаты
func (c *DemoClient) CreateCheckout(ctx context.Context, intent payment.Intent) (*payment.Checkout, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if intent.SessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrInvalidIntent)
	}
	if intent.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %d", ErrInvalidIntent, intent.Amount)
	}

	orderID := "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	q := url.Values{}
	q.Set("order", orderID)
	checkoutURL := c.baseURL + DemoPath + url.PathEscape(intent.SessionID) + "?" + q.Encode()

	c.log.Info("CreateCheckout: demo order created: session_id=%s, order_id=%s, amount=%d %s",
		intent.SessionID, orderID, intent.Amount, intent.Currency)

	return &payment.Checkout{
		URL:     checkoutURL,
		OrderID: orderID,
		Intent:  intent,
	}, nil
}
