package notify

import "context"

// StubEmailSender только пишет письмо в лог
type StubEmailSender struct {
	log Logger
}

// NewStubEmailSender создает stub отправителя
func NewStubEmailSender(log Logger) *StubEmailSender {
	return &StubEmailSender{log: log}
}

// Send логирует письмо без отправки
func (s *StubEmailSender) Send(_ context.Context, msg EmailMessage) error {
	s.log.Info("Send: stub sender, email not delivered: to=%s, subject=%q", msg.To, msg.Subject)
	return nil
}
