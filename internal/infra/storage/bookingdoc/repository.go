package bookingdoc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var tracer = otel.Tracer("consultation.internal.storage.bookingdoc")

// Repository хранит подтвержденные бронирования в коллекции MongoDB
type Repository struct {
	collection *mongo.Collection
}

// NewRepository создает репозиторий поверх коллекции
func NewRepository(collection *mongo.Collection) *Repository {
	return &Repository{collection: collection}
}

// Save вставляет документ бронирования. Повторная вставка той же записи успешна,
// другая запись с тем же booking_id возвращает ErrBookingConflict
func (r *Repository) Save(ctx context.Context, record *domain.BookingRecord) error {
	ctx, span := tracer.Start(ctx, "bookingdoc.repository.save")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.booking_id", record.BookingID))

	_, err := r.collection.InsertOne(ctx, toDocument(record))
	if err == nil {
		return nil
	}

	if !mongo.IsDuplicateKeyError(err) {
		span.RecordError(err)
		return fmt.Errorf("%w: Save - insert: %v", ErrInsert, err)
	}

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
	var doc document

	err := r.collection.FindOne(ctx, bson.M{"_id": bookingID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: GetByID: %v", ErrFind, err)
	}

	return doc.toRecord(), nil
}
