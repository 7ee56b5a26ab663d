package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridConfig настройки SendGrid
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
	// Host переопределяет адрес API (для тестов и прокси)
	Host string
}

// SendGridSender отправляет письма через SendGrid API
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	log       Logger
}

// NewSendGridSender создает отправителя SendGrid. Без API ключа возвращает nil
func NewSendGridSender(cfg SendGridConfig, log Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}

	client := sendgrid.NewSendClient(cfg.APIKey)
	if cfg.Host != "" {
		client.BaseURL = cfg.Host + "/v3/mail/send"
	}

	return &SendGridSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		log:       log,
	}
}

// Send отправляет письмо
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("%w: sendgrid", ErrNotConfigured)
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.log.Error("Send: sendgrid request failed: to=%s, error=%v", msg.To, err)
		return fmt.Errorf("%w: sendgrid: %v", ErrSend, err)
	}

	if response.StatusCode >= 400 {
		s.log.Error("Send: sendgrid returned status %d: to=%s, body=%s", response.StatusCode, msg.To, response.Body)
		return fmt.Errorf("%w: sendgrid status %d", ErrSend, response.StatusCode)
	}

	s.log.Info("Send: email sent via sendgrid: to=%s, status=%d", msg.To, response.StatusCode)
	return nil
}

var _ EmailSender = (*SendGridSender)(nil)
