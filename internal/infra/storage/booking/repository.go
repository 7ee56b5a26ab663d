package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var tracer = otel.Tracer("consultation.internal.storage.booking")

var bookingColumns = []string{
	"booking_id",
	"full_name",
	"email",
	"phone",
	"org_name",
	"org_type",
	"team_size",
	"primary_game",
	"monthly_revenue",
	"main_challenge",
	"referral_source",
	"slot_date",
	"slot_time",
	"slot_at",
	"terms_accepted_at",
	"payment_id",
	"order_id",
	"amount",
	"currency",
	"payment_status",
	"paid_at",
	"status",
	"created_at",
}

// Repository репозиторий подтвержденных бронирований в PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Save сохраняет запись о бронировании. Операция идемпотентна по booking_id:
// повторное сохранение той же записи успешно, другая запись с тем же ID дает ErrBookingConflict
func (r *Repository) Save(ctx context.Context, record *domain.BookingRecord) error {
	ctx, span := tracer.Start(ctx, "booking.repository.save")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.booking_id", record.BookingID))

	executor := dbmetrics.GetExecutor(ctx, r.db)
	d := record.Details

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(bookingColumns...).
		Values(
			record.BookingID,
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
			record.Slot.Date,
			record.Slot.Time,
			record.Slot.DateTime,
			record.TermsAcceptedAt,
			record.Payment.PaymentID,
			record.Payment.OrderID,
			record.Payment.Amount,
			record.Payment.Currency,
			record.Payment.Status,
			record.Payment.PaidAt,
			record.Status,
			record.CreatedAt,
		).
		Suffix("ON CONFLICT (booking_id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: Save - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Save - rows affected: %v", ErrExecQuery, err)
	}
	if inserted > 0 {
		return nil
	}

	// Запись с таким ID уже есть: успех, только если это та же запись
	existing, err := r.GetByID(ctx, record.BookingID)
	if err != nil {
		return fmt.Errorf("Save - load existing booking: %w", err)
	}
	if !existing.SameAs(record) {
		span.RecordError(ErrBookingConflict)
		return fmt.Errorf("%w: booking_id=%s", ErrBookingConflict, record.BookingID)
	}

	return nil
}

// GetByID получает бронирование по booking_id
func (r *Repository) GetByID(ctx context.Context, bookingID string) (*domain.BookingRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		record   domain.BookingRecord
		d        = make(map[string]*string)
		slotDate time.Time
		slotTime types.TimeString
		paidAt   sql.NullTime
	)
	for _, f := range domain.Step1Fields {
		d[f.Name] = new(string)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&record.BookingID,
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
		&slotDate,
		&slotTime,
		&record.Slot.DateTime,
		&record.TermsAcceptedAt,
		&record.Payment.PaymentID,
		&record.Payment.OrderID,
		&record.Payment.Amount,
		&record.Payment.Currency,
		&record.Payment.Status,
		&paidAt,
		&record.Status,
		&record.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	record.Details = make(domain.StepRecord, len(d))
	for name, v := range d {
		record.Details[name] = *v
	}
	record.Slot.Date = slotDate.Format(domain.DateFormat)
	record.Slot.Time = slotTime
	record.Payment.PaidAt = paidAt.Time

	return &record, nil
}
