package checkout

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

func intent() payment.Intent {
	return payment.Intent{
		SessionID: "sess-1",
		Amount:    300000,
		Currency:  "INR",
		Prefill:   payment.Prefill{Name: "Asha Rao"},
	}
}

func TestDemoClient_CreateCheckout(t *testing.T) {
	c := NewDemoClient("http://localhost:8080/", logger.NewNop())

	co, err := c.CreateCheckout(context.Background(), intent())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(co.OrderID, "order_"))
	assert.Equal(t, intent(), co.Intent)

	u, err := url.Parse(co.URL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", u.Host)
	assert.Equal(t, "/api/v1/payments/demo/sess-1", u.Path)
	assert.Equal(t, co.OrderID, u.Query().Get("order"))
}

func TestDemoClient_UniqueOrders(t *testing.T) {
	c := NewDemoClient("http://localhost:8080", logger.NewNop())

	a, err := c.CreateCheckout(context.Background(), intent())
	require.NoError(t, err)
	b, err := c.CreateCheckout(context.Background(), intent())
	require.NoError(t, err)

	assert.NotEqual(t, a.OrderID, b.OrderID)
}

func TestDemoClient_InvalidIntent(t *testing.T) {
	c := NewDemoClient("http://localhost:8080", logger.NewNop())

	in := intent()
	in.SessionID = ""
	_, err := c.CreateCheckout(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidIntent)

	in = intent()
	in.Amount = 0
	_, err = c.CreateCheckout(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestDemoClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDemoClient("http://localhost:8080", logger.NewNop()).CreateCheckout(ctx, intent())
	assert.ErrorIs(t, err, ErrInternal)
}
