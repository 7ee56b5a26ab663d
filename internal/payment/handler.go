package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var tracer = otel.Tracer("consultation.internal.payment")

// Config параметры оплаты консультации
type Config struct {
	Amount        int64 // пайсы
	Currency      string
	Description   string
	Merchant      string
	NotifyTimeout time.Duration
}

// DefaultConfig стандартная стоимость консультации
func DefaultConfig() Config {
	return Config{
		Amount:        domain.ConsultationFeeMinor,
		Currency:      domain.Currency,
		Description:   domain.PaymentDescription,
		Merchant:      "VEXA Digital",
		NotifyTimeout: 10 * time.Second,
	}
}

// Handler протокол оплаты: открытие формы, обработка результата,
// однократное создание записи, сохранение и уведомление
type Handler struct {
	cfg          Config
	checkout     CheckoutClient
	repo         BookingRepository
	notifier     Notifier
	ids          IDGenerator
	timeProvider TimeProvider
	logger       Logger

	notifyWG sync.WaitGroup
}

// NewHandler создает обработчик оплаты
func NewHandler(
	cfg Config,
	checkout CheckoutClient,
	repo BookingRepository,
	notifier Notifier,
	ids IDGenerator,
	timeProvider TimeProvider,
	logger Logger,
) *Handler {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}
	return &Handler{
		cfg:          cfg,
		checkout:     checkout,
		repo:         repo,
		notifier:     notifier,
		ids:          ids,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// BuildIntent собирает параметры оплаты из черновика
func (h *Handler) BuildIntent(sessionID string, draft *domain.Draft) Intent {
	return Intent{
		SessionID:   sessionID,
		Amount:      h.cfg.Amount,
		Currency:    h.cfg.Currency,
		Merchant:    h.cfg.Merchant,
		Description: h.cfg.Description,
		Prefill: Prefill{
			Name:    draft.Value(domain.FieldFullName),
			Email:   draft.Value(domain.FieldEmail),
			Contact: draft.Value(domain.FieldPhone),
		},
	}
}

// InitiatePayment открывает форму оплаты для заполненного черновика
func (h *Handler) InitiatePayment(ctx context.Context, sessionID string, draft *domain.Draft) (*Checkout, error) {
	ctx, span := tracer.Start(ctx, "payment.initiate")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.session_id", sessionID))

	if !draft.IsComplete() {
		span.RecordError(ErrDraftIncomplete)
		return nil, ErrDraftIncomplete
	}

	intent := h.BuildIntent(sessionID, draft)

	checkout, err := h.checkout.CreateCheckout(ctx, intent)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("InitiatePayment: failed to create checkout: session_id=%s, error=%v", sessionID, err)
		return nil, newPaymentError(ReasonCheckoutUnavailable, fmt.Errorf("%w: %v", ErrCheckoutUnavailable, err))
	}

	span.SetAttributes(attribute.String("consultation.order_id", checkout.OrderID))
	h.logger.Info("InitiatePayment: checkout opened: session_id=%s, order_id=%s", sessionID, checkout.OrderID)

	return checkout, nil
}

// OnPaymentResult обрабатывает результат оплаты.
// При успехе создает запись (не более одного раза на черновик), сохраняет её
// и асинхронно отправляет уведомление. Повторный успех с тем же paymentId
// возвращает уже созданную запись без изменений
func (h *Handler) OnPaymentResult(ctx context.Context, draft *domain.Draft, result Result) (*domain.BookingRecord, error) {
	ctx, span := tracer.Start(ctx, "payment.result")
	defer span.End()
	span.SetAttributes(
		attribute.String("consultation.payment_status", string(result.Status)),
		attribute.String("consultation.payment_id", result.PaymentID),
	)

	// 1. Неуспешная оплата: запись не создается
	if !result.IsSuccess() {
		h.logger.Warn("OnPaymentResult: payment failed: order_id=%s, reason=%s", result.OrderID, result.Reason)
		err := newPaymentError(ReasonDeclined, nil)
		span.RecordError(err)
		return nil, err
	}

	// 2. Успех без paymentId не принимаем
	if result.PaymentID == "" {
		err := newPaymentError(ReasonMissingPaymentID, nil)
		span.RecordError(err)
		h.logger.Warn("OnPaymentResult: success without payment id: order_id=%s", result.OrderID)
		return nil, err
	}

	// 3. Создаем запись или берем уже созданную
	var record *domain.BookingRecord
	if draft.IsFinalized() {
		record = draft.Record
		if record.Payment.PaymentID != result.PaymentID {
			span.RecordError(ErrAlreadyFinalized)
			return nil, fmt.Errorf("%w: booking_id=%s", ErrAlreadyFinalized, record.BookingID)
		}
		h.logger.Info("OnPaymentResult: duplicate result for booking_id=%s, reusing record", record.BookingID)
	} else {
		existing, err := h.lookupPersisted(ctx, result.PaymentID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if existing != nil {
			// запись уже сохранена прошлым колбэком, сессия просто не успела это запомнить
			if err := draft.Finalize(existing); err != nil {
				span.RecordError(err)
				return nil, ErrDraftIncomplete
			}
			span.SetAttributes(attribute.String("consultation.booking_id", existing.BookingID))
			h.logger.Info("OnPaymentResult: booking already persisted: booking_id=%s, payment_id=%s",
				existing.BookingID, result.PaymentID)
			return existing, nil
		}

		record, err = h.Finalize(draft, h.metadataFrom(result))
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}
	span.SetAttributes(attribute.String("consultation.booking_id", record.BookingID))

	// 4. Сохраняем и уведомляем
	if err := h.PersistAndNotify(ctx, record); err != nil {
		span.RecordError(err)
		return record, err
	}

	return record, nil
}

// Finalize создает запись о бронировании из черновика. Срабатывает один раз
func (h *Handler) Finalize(draft *domain.Draft, meta domain.PaymentMetadata) (*domain.BookingRecord, error) {
	if draft.IsFinalized() {
		return nil, fmt.Errorf("%w: booking_id=%s", ErrAlreadyFinalized, draft.Record.BookingID)
	}
	if !draft.IsComplete() {
		return nil, ErrDraftIncomplete
	}

	record := &domain.BookingRecord{
		BookingID:       h.ids.NewBookingID(meta.PaymentID),
		Details:         draft.Step(domain.StepDetails),
		Slot:            *draft.Slot,
		TermsAcceptedAt: *draft.TermsAcceptedAt,
		Payment:         meta,
		Status:          domain.StatusConfirmed,
		CreatedAt:       meta.PaidAt,
	}

	if err := draft.Finalize(record); err != nil {
		if errors.Is(err, domain.ErrDraftFinalized) {
			return nil, ErrAlreadyFinalized
		}
		return nil, ErrDraftIncomplete
	}

	h.logger.Info("Finalize: booking record created: booking_id=%s, payment_id=%s, slot=%s %s",
		record.BookingID, meta.PaymentID, record.Slot.Date, record.Slot.Time)

	return record, nil
}

// lookupPersisted ищет запись, уже сохраненную для этой оплаты.
// Ошибка хранилища не блокирует оплату: повторное сохранение с тем же
// идентификатором идемпотентно
func (h *Handler) lookupPersisted(ctx context.Context, paymentID string) (*domain.BookingRecord, error) {
	bookingID := h.ids.NewBookingID(paymentID)

	existing, err := h.repo.GetByID(ctx, bookingID)
	switch {
	case err == nil:
		if existing.Payment.PaymentID != paymentID {
			return nil, fmt.Errorf("%w: booking_id=%s", ErrAlreadyFinalized, bookingID)
		}
		return existing, nil
	case errors.Is(err, domain.ErrBookingNotFound):
		return nil, nil
	default:
		h.logger.Warn("OnPaymentResult: failed to look up booking_id=%s: %v", bookingID, err)
		return nil, nil
	}
}

// PersistAndNotify сохраняет запись, затем запускает уведомление в фоне.
// Ошибка сохранения возвращается как PersistenceError, уведомление при этом не отправляется
func (h *Handler) PersistAndNotify(ctx context.Context, record *domain.BookingRecord) error {
	ctx, span := tracer.Start(ctx, "payment.persist")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.booking_id", record.BookingID))

	if err := h.repo.Save(ctx, record); err != nil {
		span.RecordError(err)
		h.logger.Error("PersistAndNotify: failed to save booking: booking_id=%s, error=%v", record.BookingID, err)
		return &PersistenceError{BookingID: record.BookingID, Err: err}
	}

	h.logger.Info("PersistAndNotify: booking saved: booking_id=%s", record.BookingID)
	h.notifyAsync(record)

	return nil
}

// notifyAsync отправляет уведомление, не блокируя подтверждение
func (h *Handler) notifyAsync(record *domain.BookingRecord) {
	if h.notifier == nil {
		return
	}

	h.notifyWG.Add(1)
	go func() {
		defer h.notifyWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.notifyTimeout())
		defer cancel()

		if err := h.notifier.Notify(ctx, record); err != nil {
			nerr := &NotificationError{BookingID: record.BookingID, Err: err}
			h.logger.Warn("notify: %v", nerr)
			return
		}
		h.logger.Info("notify: confirmation sent: booking_id=%s", record.BookingID)
	}()
}

// Wait дожидается фоновых уведомлений (graceful shutdown и тесты)
func (h *Handler) Wait() {
	h.notifyWG.Wait()
}

func (h *Handler) notifyTimeout() time.Duration {
	if h.cfg.NotifyTimeout <= 0 {
		return 10 * time.Second
	}
	return h.cfg.NotifyTimeout
}

func (h *Handler) metadataFrom(result Result) domain.PaymentMetadata {
	paidAt := result.PaidAt
	if paidAt.IsZero() {
		paidAt = h.timeProvider.Now()
	}
	return domain.PaymentMetadata{
		PaymentID: result.PaymentID,
		OrderID:   result.OrderID,
		Amount:    h.cfg.Amount / 100,
		Currency:  h.cfg.Currency,
		Status:    domain.PaymentStatusSuccess,
		PaidAt:    paidAt,
	}
}
