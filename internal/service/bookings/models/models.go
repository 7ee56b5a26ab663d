package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

// BookingResponse ответ с данными подтвержденного бронирования
type BookingResponse struct {
	BookingID        string    `json:"bookingId"`
	Status           string    `json:"status"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Organization     string    `json:"organization"`
	Date             string    `json:"date"`      // "2024-03-05"
	Time             string    `json:"time"`      // "10:30"
	DateLabel        string    `json:"dateLabel"` // "Tuesday, 5 March 2024"
	TimeZone         string    `json:"timeZone"`
	StartsAt         time.Time `json:"startsAt"`
	Duration         string    `json:"duration"`
	Platform         string    `json:"platform"`
	Amount           int64     `json:"amount"` // рупии
	AmountLabel      string    `json:"amountLabel"`
	Currency         string    `json:"currency"`
	PaymentID        string    `json:"paymentId"`
	PaidAt           time.Time `json:"paidAt"`
	CreatedAt        time.Time `json:"createdAt"`
	ConfirmationPath string    `json:"confirmationPath"`
}

// FromDomainBooking конвертирует запись в ответ
func FromDomainBooking(r *domain.BookingRecord) *BookingResponse {
	return &BookingResponse{
		BookingID:        r.BookingID,
		Status:           string(r.Status),
		FullName:         r.FullName(),
		Email:            r.Email(),
		Organization:     r.Details[domain.FieldOrgName],
		Date:             r.Slot.Date,
		Time:             r.Slot.Time.String(),
		DateLabel:        wizard.FormatLongDate(&r.Slot),
		TimeZone:         domain.TimeZoneLabel,
		StartsAt:         r.Slot.DateTime,
		Duration:         domain.ConsultationDuration,
		Platform:         domain.ConsultationPlatform,
		Amount:           r.Payment.Amount,
		AmountLabel:      wizard.FormatRupees(r.Payment.Amount),
		Currency:         r.Payment.Currency,
		PaymentID:        r.Payment.PaymentID,
		PaidAt:           r.Payment.PaidAt,
		CreatedAt:        r.CreatedAt,
		ConfirmationPath: wizard.ConfirmationURL(r.BookingID),
	}
}
