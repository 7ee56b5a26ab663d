package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	sessionStore "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

// Исходы оплаты для метрик
const (
	outcomeSuccess       = "success"
	outcomeFailed        = "failed"
	outcomeTimeout       = "timeout"
	outcomePersistFailed = "persist_failed"
)

// Service сервис сессий мастера бронирования.
// События одной сессии обрабатываются строго последовательно: блокировка по
// session_id держится на всем цикле load -> dispatch -> save
type Service struct {
	store        SessionStore
	wizard       Dispatcher
	slots        SlotSource
	publisher    EventPublisher
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger

	locks *keyedMutex

	mu      sync.Mutex
	pending map[string]*payment.Pending // session_id -> ожидание результата оплаты
	closed  bool
	timers  sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewService создает новый экземпляр сервиса сессий.
// publisher и metrics могут быть nil
func NewService(
	store SessionStore,
	dispatcher Dispatcher,
	slots SlotSource,
	publisher EventPublisher,
	metrics MetricsRecorder,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	if timeProvider == nil {
		timeProvider = &payment.RealTimeProvider{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:        store,
		wizard:       dispatcher,
		slots:        slots,
		publisher:    publisher,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
		locks:        newKeyedMutex(),
		pending:      make(map[string]*payment.Pending),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Create создает новую сессию на первом шаге
func (s *Service) Create(ctx context.Context) (*models.SessionView, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	session := wizard.NewSession(uuid.NewString(), s.timeProvider.Now())

	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error("Create: failed to save session: %v", err)
		return nil, fmt.Errorf("%w: Create - save session: %v", ErrInternal, err)
	}

	s.logger.Info("Create: session created: session_id=%s", session.ID)
	return models.FromSession(session), nil
}

// Get возвращает текущее состояние сессии
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionView, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return models.FromSession(session), nil
}

// Slots возвращает доступные слоты для сессии
func (s *Service) Slots(ctx context.Context, sessionID string) (*models.SlotsView, error) {
	view, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return &models.SlotsView{
		Days:      s.slots.Slots(s.timeProvider.Now()),
		Selection: view.Selection,
	}, nil
}

// Dispatch применяет событие к сессии и сохраняет результат.
// Ошибка охранного условия возвращается вместе с результатом: эффекты
// (ошибки полей, сообщения) нужны клиенту и в этом случае
func (s *Service) Dispatch(ctx context.Context, sessionID string, ev wizard.Event) (*models.DispatchResult, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	return s.dispatch(ctx, sessionID, ev)
}

func (s *Service) dispatch(ctx context.Context, sessionID string, ev wizard.Event) (*models.DispatchResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, session, ev)
}

// CompletePayment передает результат оплаты из callback провайдера
func (s *Service) CompletePayment(ctx context.Context, sessionID string, result payment.Result) (*models.DispatchResult, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", ErrInvalidInput)
	}
	s.logger.Info("CompletePayment: session_id=%s, status=%s, order_id=%s", sessionID, result.Status, result.OrderID)
	return s.Dispatch(ctx, sessionID, wizard.PaymentResult(result))
}

// Close останавливает таймеры оплаты и дожидается их завершения.
// После Close новые события отклоняются с ErrClosed
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	for id, p := range s.pending {
		p.Resolve()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	s.cancel()
	s.timers.Wait()
}

func (s *Service) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// PendingPayments количество сессий, ожидающих результат оплаты
func (s *Service) PendingPayments() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// load читает сессию и применяет просроченный таймаут оплаты,
// если таймер был потерян (например, после рестарта)
func (s *Service) load(ctx context.Context, sessionID string) (*wizard.Session, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionStore.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("load: failed to get session_id=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: load - get session: %v", ErrInternal, err)
	}

	if s.overdue(session) {
		s.logger.Warn("load: payment deadline passed without timer: session_id=%s", sessionID)
		if _, err := s.apply(ctx, session, wizard.PaymentTimedOut(session.Payment.ID)); err != nil && !isPaymentTimeout(err) {
			return nil, err
		}
	}

	return session, nil
}

func (s *Service) overdue(session *wizard.Session) bool {
	if session.State != wizard.StateProcessing || session.Payment == nil || session.Draft.IsFinalized() {
		return false
	}
	if !s.timeProvider.Now().After(session.Payment.Deadline) {
		return false
	}
	s.mu.Lock()
	_, armed := s.pending[session.ID]
	s.mu.Unlock()
	return !armed
}

// apply выполняется под блокировкой сессии
func (s *Service) apply(ctx context.Context, session *wizard.Session, ev wizard.Event) (*models.DispatchResult, error) {
	from := session.State

	to, effects, dispatchErr := s.wizard.Dispatch(ctx, session, ev)

	if err := s.store.Save(ctx, session); err != nil {
		s.logger.Error("Dispatch: failed to save session_id=%s after %s: %v", session.ID, ev.Type, err)
		return nil, fmt.Errorf("%w: Dispatch - save session: %v", ErrInternal, err)
	}

	s.trackPayment(session)
	s.record(ev, session, from, to, dispatchErr)

	if dispatchErr != nil {
		s.logger.Warn("Dispatch: session_id=%s, event=%s, state=%s: %v", session.ID, ev.Type, to, dispatchErr)
	}

	s.publish(session.ID, ev, from, to, effects, dispatchErr)

	return &models.DispatchResult{
		Session: models.FromSession(session),
		Effects: effects,
	}, dispatchErr
}

// trackPayment запускает таймер для новой попытки оплаты и снимает его,
// когда сессия вышла из processing
func (s *Service) trackPayment(session *wizard.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, armed := s.pending[session.ID]

	waiting := session.State == wizard.StateProcessing && session.Payment != nil && !session.Draft.IsFinalized()
	if !waiting {
		if armed {
			current.Resolve()
			delete(s.pending, session.ID)
		}
		s.setPendingGauge()
		return
	}

	if armed && current.AttemptID == session.Payment.ID {
		return
	}
	if armed {
		current.Resolve()
	}
	if s.closed {
		delete(s.pending, session.ID)
		return
	}

	p := payment.NewPending(session.Payment.ID)
	s.pending[session.ID] = p
	s.setPendingGauge()

	timeout := session.Payment.Deadline.Sub(s.timeProvider.Now())
	s.timers.Add(1)
	go s.awaitPayment(session.ID, p, timeout)
}

func (s *Service) awaitPayment(sessionID string, p *payment.Pending, timeout time.Duration) {
	defer s.timers.Done()

	if timeout < 0 {
		timeout = 0
	}

	if err := p.Await(s.ctx, timeout); !errors.Is(err, payment.ErrTimeout) {
		return
	}

	s.logger.Warn("awaitPayment: payment timed out: session_id=%s, attempt_id=%s", sessionID, p.AttemptID)

	_, err := s.dispatch(s.ctx, sessionID, wizard.PaymentTimedOut(p.AttemptID))
	if err != nil && !isPaymentTimeout(err) {
		s.logger.Error("awaitPayment: failed to apply timeout: session_id=%s: %v", sessionID, err)
	}

	s.mu.Lock()
	if cur, ok := s.pending[sessionID]; ok && cur == p {
		delete(s.pending, sessionID)
		s.setPendingGauge()
	}
	s.mu.Unlock()
}

// setPendingGauge вызывается под s.mu
func (s *Service) setPendingGauge() {
	if s.metrics != nil {
		s.metrics.SetPendingPayments(len(s.pending))
	}
}

func (s *Service) record(ev wizard.Event, session *wizard.Session, from, to wizard.State, err error) {
	if s.metrics == nil {
		return
	}

	if from != to {
		s.metrics.ObserveTransition(string(from), string(to))
		if to == wizard.StateConfirmed {
			s.metrics.IncBookingsConfirmed()
		}
	}

	switch {
	case ev.Type == wizard.EventPaymentResult && to == wizard.StateConfirmed && from != to:
		s.metrics.ObservePaymentResult(outcomeSuccess)
	case ev.Type == wizard.EventPaymentResult && session.PersistPending:
		s.metrics.ObservePaymentResult(outcomePersistFailed)
	case ev.Type == wizard.EventPaymentResult && to == wizard.StateFailed:
		s.metrics.ObservePaymentResult(outcomeFailed)
	case ev.Type == wizard.EventPaymentTimeout && isPaymentTimeout(err):
		s.metrics.ObservePaymentResult(outcomeTimeout)
	}
}

func (s *Service) publish(sessionID string, ev wizard.Event, from, to wizard.State, effects []wizard.Effect, err error) {
	if s.publisher == nil {
		return
	}

	event := &models.TransitionEvent{
		SessionID: sessionID,
		Event:     string(ev.Type),
		From:      from,
		To:        to,
		Effects:   effects,
		At:        s.timeProvider.Now(),
	}
	if err != nil {
		event.Error = err.Error()
	}

	s.publisher.Publish(sessionID, event)
}

func isPaymentTimeout(err error) bool {
	var perr *payment.PaymentError
	return errors.As(err, &perr) && perr.Reason == payment.ReasonTimeout
}
