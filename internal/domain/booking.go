package domain

import (
	"maps"
	"time"
)

// BookingStatus represents the status of a booking record
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
)

// PaymentStatus is the provider-reported payment state
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMetadata is the payment part of a booking record
type PaymentMetadata struct {
	PaymentID string        `json:"paymentId"`
	OrderID   string        `json:"orderId"`
	Amount    int64         `json:"amount"` // rupees
	Currency  string        `json:"currency"`
	Status    PaymentStatus `json:"status"`
	PaidAt    time.Time     `json:"paidAt"`
}

// BookingRecord is the immutable result of a successful payment
type BookingRecord struct {
	BookingID       string          `json:"bookingId"`
	Details         StepRecord      `json:"details"`
	Slot            SelectedSlot    `json:"slot"`
	TermsAcceptedAt time.Time       `json:"termsAcceptedAt"`
	Payment         PaymentMetadata `json:"payment"`
	Status          BookingStatus   `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// FullName returns the booker's name from the step 1 details
func (r *BookingRecord) FullName() string {
	return r.Details[FieldFullName]
}

// Email returns the booker's email from the step 1 details
func (r *BookingRecord) Email() string {
	return r.Details[FieldEmail]
}

// SameAs reports whether two records describe the same booking.
// Timestamps are compared at millisecond precision since stores truncate them.
func (r *BookingRecord) SameAs(other *BookingRecord) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.BookingID == other.BookingID &&
		r.Status == other.Status &&
		maps.Equal(r.Details, other.Details) &&
		r.Slot.Date == other.Slot.Date &&
		r.Slot.Time == other.Slot.Time &&
		r.Payment.PaymentID == other.Payment.PaymentID &&
		r.Payment.OrderID == other.Payment.OrderID &&
		r.Payment.Amount == other.Payment.Amount &&
		r.Payment.Currency == other.Payment.Currency &&
		sameInstant(r.CreatedAt, other.CreatedAt)
}

func sameInstant(a, b time.Time) bool {
	return a.Truncate(time.Millisecond).Equal(b.Truncate(time.Millisecond))
}
