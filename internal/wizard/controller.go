package wizard

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/validation"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// DefaultPaymentTimeout время ожидания результата оплаты
const DefaultPaymentTimeout = 15 * time.Minute

// ErrMissingResult событие payment_result без результата
var ErrMissingResult = errors.New("wizard: payment result is missing")

// Controller конечный автомат мастера бронирования.
// Dispatch единственная точка входа; контроллер не хранит состояние между вызовами,
// вызывающий код отвечает за сериализацию событий одной сессии
type Controller struct {
	slots          SlotSource
	payments       PaymentHandler
	timeProvider   TimeProvider
	paymentTimeout time.Duration
	newAttemptID   AttemptIDGenerator
	logger         Logger
}

// NewController создает контроллер
func NewController(
	slots SlotSource,
	payments PaymentHandler,
	paymentTimeout time.Duration,
	timeProvider TimeProvider,
	logger Logger,
) *Controller {
	if paymentTimeout <= 0 {
		paymentTimeout = DefaultPaymentTimeout
	}
	if timeProvider == nil {
		timeProvider = &payment.RealTimeProvider{}
	}
	return &Controller{
		slots:          slots,
		payments:       payments,
		timeProvider:   timeProvider,
		paymentTimeout: paymentTimeout,
		newAttemptID:   uuid.NewString,
		logger:         logger,
	}
}

// Dispatch применяет событие к сессии и возвращает новое состояние и эффекты.
// При ошибке охранного условия состояние не продвигается вперед, но эффекты
// (ошибки полей, сообщения) все равно возвращаются
func (c *Controller) Dispatch(ctx context.Context, s *Session, ev Event) (State, []Effect, error) {
	if s == nil {
		return "", nil, fmt.Errorf("%w: nil session", ErrInvalidTransition)
	}
	s.ensureMaps()
	now := c.timeProvider.Now()

	var (
		effects []Effect
		err     error
	)

	switch ev.Type {
	case EventEditField:
		effects, err = c.editFields(s, ev)
	case EventValidateField:
		effects, err = c.validateField(s, ev)
	case EventSelectSlot:
		effects, err = c.selectSlot(s, ev, now)
	case EventAdvance:
		effects, err = c.advance(ctx, s, ev, now)
	case EventBack:
		effects, err = c.back(s, now)
	case EventRetry:
		effects, err = c.retry(ctx, s)
	case EventPaymentResult:
		effects, err = c.paymentResult(ctx, s, ev)
	case EventPaymentTimeout:
		effects, err = c.paymentTimedOut(s, ev)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}

	s.UpdatedAt = now
	return s.State, effects, err
}

// editFields сохраняет ввод и снимает ошибки с измененных полей
func (c *Controller) editFields(s *Session, ev Event) ([]Effect, error) {
	if s.State != StateStep1 {
		return nil, invalidTransition(s.State, ev.Type)
	}

	var errs validation.Errors
	for _, name := range slices.Sorted(maps.Keys(ev.Fields)) {
		if _, found := domain.LookupField(name); !found {
			errs = append(errs, &validation.ValidationError{Field: name, Message: validation.MsgUnknownField})
			continue
		}
		s.Inputs[name] = ev.Fields[name]
		delete(s.FieldErrors, name)
	}

	effects := []Effect{showFieldErrors(s.FieldErrors)}
	if len(errs) > 0 {
		return effects, errs
	}
	return effects, nil
}

// validateField проверка поля при потере фокуса
func (c *Controller) validateField(s *Session, ev Event) ([]Effect, error) {
	if s.State != StateStep1 {
		return nil, invalidTransition(s.State, ev.Type)
	}
	if _, found := domain.LookupField(ev.Field); !found {
		return nil, &validation.ValidationError{Field: ev.Field, Message: validation.MsgUnknownField}
	}

	res := validation.ValidateNamedField(ev.Field, s.Inputs[ev.Field])
	if res.Valid {
		delete(s.FieldErrors, ev.Field)
	} else {
		s.FieldErrors[ev.Field] = res.Message
	}

	return []Effect{showFieldErrors(s.FieldErrors)}, nil
}

// selectSlot заменяет выбранный слот. Недоступный слот не меняет прежний выбор
func (c *Controller) selectSlot(s *Session, ev Event, now time.Time) ([]Effect, error) {
	if s.State != StateStep2 {
		return nil, invalidTransition(s.State, ev.Type)
	}

	t, err := types.NewTimeStringFromString(ev.Time)
	slot := domain.TimeSlot{Date: ev.Date, Time: t}
	if err != nil || !c.slots.Contains(now, slot) {
		return []Effect{showMessage(MsgSlotUnavailable)}, &SelectionError{Message: MsgSlotUnavailable}
	}

	s.Selection = &slot
	return nil, nil
}

func (c *Controller) advance(ctx context.Context, s *Session, ev Event, now time.Time) ([]Effect, error) {
	switch s.State {
	case StateStep1:
		return c.advanceFromDetails(s, now)
	case StateStep2:
		return c.advanceFromSlot(s, now)
	case StateStep3:
		return c.advanceToPayment(ctx, s, ev, now)
	default:
		return nil, invalidTransition(s.State, ev.Type)
	}
}

// advanceFromDetails шаг 1 -> шаг 2: все поля или ничего
func (c *Controller) advanceFromDetails(s *Session, now time.Time) ([]Effect, error) {
	record, err := validation.ValidateStep1(s.Inputs)
	if err != nil {
		var errs validation.Errors
		if errors.As(err, &errs) {
			s.FieldErrors = errs.Fields()
		}
		return []Effect{showFieldErrors(s.FieldErrors)}, err
	}

	if err := s.Draft.CommitStep(domain.StepDetails, record); err != nil {
		return nil, err
	}
	clear(s.FieldErrors)

	if err := c.transition(s, StateStep2); err != nil {
		return nil, err
	}
	return []Effect{showStep(StateStep2), renderSlots(c.slots.Slots(now))}, nil
}

// advanceFromSlot шаг 2 -> шаг 3: слот выбран и все еще доступен
func (c *Controller) advanceFromSlot(s *Session, now time.Time) ([]Effect, error) {
	if s.Selection == nil {
		return []Effect{showMessage(MsgSelectSlot)}, &SelectionError{Message: MsgSelectSlot}
	}

	if !c.slots.Contains(now, *s.Selection) {
		s.Selection = nil
		return []Effect{showMessage(MsgSlotUnavailable), renderSlots(c.slots.Slots(now))},
			&SelectionError{Message: MsgSlotUnavailable}
	}

	selected, err := domain.NewSelectedSlot(*s.Selection)
	if err != nil {
		return []Effect{showMessage(MsgSlotUnavailable)}, &SelectionError{Message: MsgSlotUnavailable}
	}
	if err := s.Draft.CommitSlot(selected); err != nil {
		return nil, err
	}

	if err := c.transition(s, StateStep3); err != nil {
		return nil, err
	}
	return []Effect{showStep(StateStep3), renderSummary(BuildSummary(s.Draft))}, nil
}

// advanceToPayment шаг 3 -> оплата: условия приняты, открываем форму оплаты
func (c *Controller) advanceToPayment(ctx context.Context, s *Session, ev Event, now time.Time) ([]Effect, error) {
	if !ev.TermsAccepted {
		return []Effect{showMessage(MsgAcceptTerms)}, &TermsError{Message: MsgAcceptTerms}
	}

	if err := s.Draft.AcceptTerms(now); err != nil {
		return nil, err
	}
	if err := c.transition(s, StateProcessing); err != nil {
		return nil, err
	}
	s.LastError = ""

	checkout, err := c.payments.InitiatePayment(ctx, s.ID, s.Draft)
	if err != nil {
		c.fail(s, payment.MsgPaymentFailed)
		return []Effect{showStep(StateFailed), showMessage(payment.MsgPaymentFailed)}, err
	}

	attempt := &PaymentAttempt{
		ID:          c.newAttemptID(),
		OrderID:     checkout.OrderID,
		CheckoutURL: checkout.URL,
		StartedAt:   now,
		Deadline:    now.Add(c.paymentTimeout),
	}
	s.Payment = attempt

	return []Effect{
		showStep(StateProcessing),
		openCheckout(checkout),
		awaitPayment(attempt.ID, attempt.Deadline),
	}, nil
}

func (c *Controller) back(s *Session, now time.Time) ([]Effect, error) {
	switch s.State {
	case StateStep2:
		if err := c.transition(s, StateStep1); err != nil {
			return nil, err
		}
		return []Effect{showStep(StateStep1)}, nil

	case StateStep3:
		if err := c.transition(s, StateStep2); err != nil {
			return nil, err
		}
		return []Effect{showStep(StateStep2), renderSlots(c.slots.Slots(now))}, nil

	case StateFailed:
		return c.retryFromFailed(s)

	default:
		return nil, invalidTransition(s.State, EventBack)
	}
}

func (c *Controller) retry(ctx context.Context, s *Session) ([]Effect, error) {
	switch {
	case s.State == StateFailed:
		return c.retryFromFailed(s)

	case s.State == StateProcessing && s.PersistPending && s.Record() != nil:
		// Повторяем только сохранение, оплату не трогаем
		if err := c.payments.PersistAndNotify(ctx, s.Record()); err != nil {
			s.LastError = MsgPersistenceFailed
			return []Effect{showMessage(MsgPersistenceFailed)}, err
		}
		return c.confirm(s)

	default:
		return nil, invalidTransition(s.State, EventRetry)
	}
}

// retryFromFailed ошибка оплаты -> шаг 3 со сводкой
func (c *Controller) retryFromFailed(s *Session) ([]Effect, error) {
	if err := c.transition(s, StateStep3); err != nil {
		return nil, err
	}
	s.Payment = nil
	s.LastError = ""
	return []Effect{showStep(StateStep3), renderSummary(BuildSummary(s.Draft))}, nil
}

func (c *Controller) paymentResult(ctx context.Context, s *Session, ev Event) ([]Effect, error) {
	if ev.Result == nil {
		return nil, ErrMissingResult
	}
	res := *ev.Result

	switch s.State {
	case StateConfirmed:
		// Повторный callback по уже подтвержденному бронированию ничего не меняет
		if rec := s.Record(); rec != nil && res.IsSuccess() && rec.Payment.PaymentID == res.PaymentID {
			return []Effect{showConfirmation(rec.BookingID)}, nil
		}
		return nil, invalidTransition(s.State, ev.Type)

	case StateProcessing:
		if s.Payment != nil && s.Payment.OrderID != "" && res.OrderID != s.Payment.OrderID {
			c.logger.Warn("Dispatch: payment result for another order: session_id=%s, expected=%s, got=%s",
				s.ID, s.Payment.OrderID, res.OrderID)
			return nil, &payment.PaymentError{Reason: payment.ReasonOrderMismatch, Message: payment.MsgPaymentFailed}
		}

		_, err := c.payments.OnPaymentResult(ctx, s.Draft, res)
		if err == nil {
			return c.confirm(s)
		}

		var persistErr *payment.PersistenceError
		if errors.As(err, &persistErr) {
			s.PersistPending = true
			s.LastError = MsgPersistenceFailed
			return []Effect{showMessage(MsgPersistenceFailed)}, err
		}

		// Запись уже есть: состояние не меняем, оплату не откатываем
		if s.Draft.IsFinalized() {
			return nil, err
		}

		c.fail(s, payment.MsgPaymentFailed)
		return []Effect{showStep(StateFailed), showMessage(payment.MsgPaymentFailed)}, err

	default:
		return nil, invalidTransition(s.State, ev.Type)
	}
}

// paymentTimedOut таймаут действует только для текущей попытки без созданной записи
func (c *Controller) paymentTimedOut(s *Session, ev Event) ([]Effect, error) {
	if s.State != StateProcessing || s.Payment == nil || s.Payment.ID != ev.AttemptID || s.Draft.IsFinalized() {
		c.logger.Info("Dispatch: stale payment timeout ignored: session_id=%s, attempt_id=%s, state=%s",
			s.ID, ev.AttemptID, s.State)
		return nil, nil
	}

	c.fail(s, MsgPaymentTimeout)
	return []Effect{showStep(StateFailed), showMessage(MsgPaymentTimeout)}, &payment.PaymentError{
		Reason:  payment.ReasonTimeout,
		Message: MsgPaymentTimeout,
		Err:     payment.ErrTimeout,
	}
}

func (c *Controller) confirm(s *Session) ([]Effect, error) {
	if err := c.transition(s, StateConfirmed); err != nil {
		return nil, err
	}
	s.PersistPending = false
	s.LastError = ""
	bookingID := s.BookingID()
	return []Effect{showStep(StateConfirmed), showConfirmation(bookingID)}, nil
}

func (c *Controller) fail(s *Session, msg string) {
	if err := c.transition(s, StateFailed); err != nil {
		c.logger.Error("Dispatch: %v", err)
		return
	}
	s.LastError = msg
}

func (c *Controller) transition(s *Session, to State) error {
	if !CanTransition(s.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.State, to)
	}
	c.logger.Info("Dispatch: session_id=%s, %s -> %s", s.ID, s.State, to)
	s.State = to
	return nil
}
