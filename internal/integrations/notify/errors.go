package notify

import "errors"

var (
	// ErrNotConfigured возвращается, если отправитель не настроен
	ErrNotConfigured = errors.New("notify: sender not configured")

	// ErrSend возвращается при ошибке отправки письма
	ErrSend = errors.New("notify: failed to send email")

	// ErrNoRecipient возвращается, если в записи нет email получателя
	ErrNoRecipient = errors.New("notify: booking has no recipient email")

	// ErrEnqueue возвращается, если задачу не удалось поставить в очередь
	ErrEnqueue = errors.New("notify: failed to enqueue task")

	// ErrInvalidPayload возвращается при некорректной задаче из очереди
	ErrInvalidPayload = errors.New("notify: invalid task payload")
)
