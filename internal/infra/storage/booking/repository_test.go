package booking

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	createdAt = time.Date(2024, time.March, 4, 12, 5, 0, 0, time.UTC)
	slotAt    = time.Date(2024, time.March, 5, 10, 30, 0, 0, domain.Location)
)

func sampleRecord() *domain.BookingRecord {
	return &domain.BookingRecord{
		BookingID: "VEXA-0001",
		Details: domain.StepRecord{
			domain.FieldFullName:       "Asha Rao",
			domain.FieldEmail:          "asha@studio.in",
			domain.FieldPhone:          "+919876543210",
			domain.FieldOrgName:        "Rao Studios",
			domain.FieldOrgType:        "gaming_studio",
			domain.FieldTeamSize:       "6-15",
			domain.FieldPrimaryGame:    "Valorant",
			domain.FieldMonthlyRevenue: "",
			domain.FieldMainChallenge:  "challenge",
			domain.FieldReferralSource: "",
		},
		Slot:            domain.SelectedSlot{Date: "2024-03-05", Time: "10:30", DateTime: slotAt},
		TermsAcceptedAt: createdAt.Add(-time.Minute),
		Payment: domain.PaymentMetadata{
			PaymentID: "pay_1",
			OrderID:   "order_1",
			Amount:    3000,
			Currency:  "INR",
			Status:    domain.PaymentStatusSuccess,
			PaidAt:    createdAt,
		},
		Status:    domain.StatusConfirmed,
		CreatedAt: createdAt,
	}
}

func bookingRows(r *domain.BookingRecord) *sqlmock.Rows {
	d := r.Details
	slotDate, _ := time.Parse(domain.DateFormat, r.Slot.Date)
	return sqlmock.NewRows(bookingColumns).AddRow(
		r.BookingID,
		d[domain.FieldFullName],
		d[domain.FieldEmail],
		d[domain.FieldPhone],
		d[domain.FieldOrgName],
		d[domain.FieldOrgType],
		d[domain.FieldTeamSize],
		d[domain.FieldPrimaryGame],
		d[domain.FieldMonthlyRevenue],
		d[domain.FieldMainChallenge],
		d[domain.FieldReferralSource],
		slotDate,
		string(r.Slot.Time)+":00",
		r.Slot.DateTime,
		r.TermsAcceptedAt,
		r.Payment.PaymentID,
		r.Payment.OrderID,
		r.Payment.Amount,
		r.Payment.Currency,
		string(r.Payment.Status),
		r.Payment.PaidAt,
		string(r.Status),
		r.CreatedAt,
	)
}

var (
	insertQuery = regexp.QuoteMeta("INSERT INTO bookings")
	selectQuery = regexp.QuoteMeta("SELECT booking_id")
)

func TestRepository_Save_Inserted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(insertQuery + ".*ON CONFLICT \\(booking_id\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewRepository(db).Save(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Save_SameRecordIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	record := sampleRecord()
	mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectQuery).WithArgs(record.BookingID).WillReturnRows(bookingRows(record))

	err = NewRepository(db).Save(context.Background(), record)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Save_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stored := sampleRecord()
	stored.Payment.PaymentID = "pay_other"

	mock.ExpectExec(insertQuery).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectQuery).WillReturnRows(bookingRows(stored))

	err = NewRepository(db).Save(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrBookingConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Save_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("connection reset"))

	err = NewRepository(db).Save(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	record := sampleRecord()
	mock.ExpectQuery(selectQuery).WithArgs("VEXA-0001").WillReturnRows(bookingRows(record))

	got, err := NewRepository(db).GetByID(context.Background(), "VEXA-0001")
	require.NoError(t, err)

	assert.True(t, got.SameAs(record))
	assert.Equal(t, "2024-03-05", got.Slot.Date)
	assert.Equal(t, "10:30", got.Slot.Time.String())
	assert.Equal(t, "Asha Rao", got.FullName())
	assert.Equal(t, domain.PaymentStatusSuccess, got.Payment.Status)
	assert.True(t, got.Payment.PaidAt.Equal(createdAt))
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(selectQuery).WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err = NewRepository(db).GetByID(context.Background(), "VEXA-missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
