package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

// Notifier отправляет подтверждение бронирования на email клиента
type Notifier struct {
	sender EmailSender
	log    Logger
}

// NewNotifier создает notifier поверх отправителя писем
func NewNotifier(sender EmailSender, log Logger) *Notifier {
	return &Notifier{sender: sender, log: log}
}

// Notify отправляет письмо с подтверждением
func (n *Notifier) Notify(ctx context.Context, record *domain.BookingRecord) error {
	msg, err := BuildConfirmationEmail(record)
	if err != nil {
		return err
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return err
	}

	n.log.Info("Notify: confirmation email sent: booking_id=%s", record.BookingID)
	return nil
}

// BuildConfirmationEmail собирает письмо с деталями консультации
func BuildConfirmationEmail(record *domain.BookingRecord) (EmailMessage, error) {
	to := strings.TrimSpace(record.Email())
	if to == "" {
		return EmailMessage{}, fmt.Errorf("%w: booking_id=%s", ErrNoRecipient, record.BookingID)
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", record.FullName()),
		"",
		"Your consultation is confirmed.",
		"",
		"Booking ID: " + record.BookingID,
		"Date: " + wizard.FormatLongDate(&record.Slot),
		fmt.Sprintf("Time: %s %s", record.Slot.Time, domain.TimeZoneLabel),
		"Duration: " + domain.ConsultationDuration,
		"Platform: " + domain.ConsultationPlatform,
		"Amount paid: " + wizard.FormatRupees(record.Payment.Amount),
		"",
		"A meeting link will be shared before the session.",
	}
	body := strings.Join(lines, "\n")

	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			b.WriteString("<br>\n")
			continue
		}
		b.WriteString("<p>" + html.EscapeString(line) + "</p>\n")
	}

	return EmailMessage{
		To:      to,
		ToName:  record.FullName(),
		Subject: "Consultation confirmed: " + record.BookingID,
		Body:    body,
		HTML:    b.String(),
	}, nil
}
