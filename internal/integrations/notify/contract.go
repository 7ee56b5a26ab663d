package notify

import "context"

// EmailSender отправка письма. Реализации: SendGrid, SES, stub
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage письмо для отправки
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
