package bookingdoc

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

type paymentDocument struct {
	PaymentID string    `bson:"payment_id"`
	OrderID   string    `bson:"order_id"`
	Amount    int64     `bson:"amount"`
	Currency  string    `bson:"currency"`
	Status    string    `bson:"status"`
	PaidAt    time.Time `bson:"paid_at"`
}

type slotDocument struct {
	Date     string           `bson:"date"`
	Time     types.TimeString `bson:"time"`
	DateTime time.Time        `bson:"date_time"`
}

// document хранимое представление BookingRecord; _id совпадает с booking_id
type document struct {
	BookingID       string            `bson:"_id"`
	Details         map[string]string `bson:"details"`
	Slot            slotDocument      `bson:"slot"`
	TermsAcceptedAt time.Time         `bson:"terms_accepted_at"`
	Payment         paymentDocument   `bson:"payment"`
	Status          string            `bson:"status"`
	CreatedAt       time.Time         `bson:"created_at"`
}

func toDocument(r *domain.BookingRecord) document {
	return document{
		BookingID: r.BookingID,
		Details:   r.Details.Clone(),
		Slot: slotDocument{
			Date:     r.Slot.Date,
			Time:     r.Slot.Time,
			DateTime: r.Slot.DateTime,
		},
		TermsAcceptedAt: r.TermsAcceptedAt,
		Payment: paymentDocument{
			PaymentID: r.Payment.PaymentID,
			OrderID:   r.Payment.OrderID,
			Amount:    r.Payment.Amount,
			Currency:  r.Payment.Currency,
			Status:    string(r.Payment.Status),
			PaidAt:    r.Payment.PaidAt,
		},
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
	}
}

func (d document) toRecord() *domain.BookingRecord {
	return &domain.BookingRecord{
		BookingID: d.BookingID,
		Details:   domain.StepRecord(d.Details).Clone(),
		Slot: domain.SelectedSlot{
			Date:     d.Slot.Date,
			Time:     d.Slot.Time,
			DateTime: d.Slot.DateTime.In(domain.Location),
		},
		TermsAcceptedAt: d.TermsAcceptedAt,
		Payment: domain.PaymentMetadata{
			PaymentID: d.Payment.PaymentID,
			OrderID:   d.Payment.OrderID,
			Amount:    d.Payment.Amount,
			Currency:  d.Payment.Currency,
			Status:    domain.PaymentStatus(d.Payment.Status),
			PaidAt:    d.Payment.PaidAt,
		},
		Status:    domain.BookingStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}
