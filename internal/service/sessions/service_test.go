package sessions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/availability"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionStore "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/payment"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/validation"
	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

// Понедельник, 4 марта 2024, 12:00 IST
var testNow = time.Date(2024, time.March, 4, 12, 0, 0, 0, domain.Location)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeCheckout struct{}

func (fakeCheckout) CreateCheckout(_ context.Context, intent payment.Intent) (*payment.Checkout, error) {
	return &payment.Checkout{URL: "https://pay.test/" + intent.SessionID, OrderID: "order_1", Intent: intent}, nil
}

type fakeRepo struct {
	mu    sync.Mutex
	saved []*domain.BookingRecord
}

func (f *fakeRepo) Save(_ context.Context, record *domain.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, bookingID string) (*domain.BookingRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.saved {
		if record.BookingID == bookingID {
			return record, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

func (f *fakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.TransitionEvent
}

func (p *recordingPublisher) Publish(_ string, ev *models.TransitionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

type metricsStub struct {
	mu          sync.Mutex
	transitions []string
	outcomes    []string
	confirmed   int
	pending     int
}

func (m *metricsStub) ObserveTransition(from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions = append(m.transitions, from+"->"+to)
}

func (m *metricsStub) ObservePaymentResult(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *metricsStub) IncBookingsConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed++
}

func (m *metricsStub) SetPendingPayments(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = n
}

type fixture struct {
	clock     *clock
	store     *sessionStore.MemoryStore
	repo      *fakeRepo
	publisher *recordingPublisher
	metrics   *metricsStub
	service   *Service
}

func newFixture(t *testing.T, paymentTimeout time.Duration) *fixture {
	t.Helper()
	f := &fixture{
		clock:     &clock{now: testNow},
		store:     sessionStore.NewMemoryStore(time.Hour),
		repo:      &fakeRepo{},
		publisher: &recordingPublisher{},
		metrics:   &metricsStub{},
	}
	f.service = f.newService(paymentTimeout)
	t.Cleanup(f.service.Close)
	return f
}

func (f *fixture) newService(paymentTimeout time.Duration) *Service {
	log := logger.NewNop()
	slots := availability.NewGenerator(domain.DefaultHorizonDays)
	payments := payment.NewHandler(payment.DefaultConfig(), fakeCheckout{}, f.repo, nil, nil, f.clock, log)
	controller := wizard.NewController(slots, payments, paymentTimeout, f.clock, log)
	return NewService(f.store, controller, slots, f.publisher, f.metrics, f.clock, log)
}

func validInputs() map[string]string {
	return map[string]string{
		domain.FieldFullName:       "Asha Rao",
		domain.FieldEmail:          "asha@studio.in",
		domain.FieldPhone:          "+919876543210",
		domain.FieldOrgName:        "Rao Studios",
		domain.FieldOrgType:        "gaming_studio",
		domain.FieldTeamSize:       "6-15",
		domain.FieldPrimaryGame:    "Valorant",
		domain.FieldMonthlyRevenue: "1l_5l",
		domain.FieldMainChallenge:  strings.Repeat("We need help scaling our tournaments. ", 6),
		domain.FieldReferralSource: "google",
	}
}

func (f *fixture) toProcessing(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	view, err := f.service.Create(ctx)
	require.NoError(t, err)
	id := view.ID

	steps := []wizard.Event{
		wizard.EditFields(validInputs()),
		wizard.Advance(),
		wizard.SelectSlot("2024-03-05", "10:30"),
		wizard.Advance(),
		wizard.AdvanceWithTerms(true),
	}
	for _, ev := range steps {
		_, err := f.service.Dispatch(ctx, id, ev)
		require.NoError(t, err, string(ev.Type))
	}

	got, err := f.service.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, wizard.StateProcessing, got.State)
	return id
}

func success() payment.Result {
	return payment.Result{Status: payment.ResultSuccess, PaymentID: "pay_1", OrderID: "order_1"}
}

func TestService_CreateAndGet(t *testing.T) {
	f := newFixture(t, time.Minute)

	created, err := f.service.Create(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, wizard.StateStep1, created.State)
	assert.Equal(t, 1, created.Step)
	assert.Equal(t, 25.0, created.Progress)

	got, err := f.service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestService_UnknownSession(t *testing.T) {
	f := newFixture(t, time.Minute)

	_, err := f.service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.service.Dispatch(context.Background(), "missing", wizard.Advance())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ValidationErrorIsSaved(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	view, err := f.service.Create(ctx)
	require.NoError(t, err)

	res, err := f.service.Dispatch(ctx, view.ID, wizard.Advance())
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	require.NotNil(t, res)
	assert.Equal(t, wizard.StateStep1, res.Session.State)
	assert.Equal(t, validation.MsgRequired, res.Session.FieldErrors[domain.FieldFullName])

	got, err := f.service.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, validation.MsgRequired, got.FieldErrors[domain.FieldFullName])
}

func TestService_Slots(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()

	view, err := f.service.Create(ctx)
	require.NoError(t, err)

	slots, err := f.service.Slots(ctx, view.ID)
	require.NoError(t, err)
	require.Len(t, slots.Days, 10)
	assert.Equal(t, "2024-03-05", slots.Days[0].DateString())
	assert.Nil(t, slots.Selection)
}

func TestService_FullFlowConfirms(t *testing.T) {
	f := newFixture(t, time.Minute)
	id := f.toProcessing(t)
	assert.Equal(t, 1, f.service.PendingPayments())

	res, err := f.service.CompletePayment(context.Background(), id, success())
	require.NoError(t, err)

	assert.Equal(t, wizard.StateConfirmed, res.Session.State)
	assert.NotEmpty(t, res.Session.BookingID)
	assert.Equal(t, "/confirmation?booking="+res.Session.BookingID, res.Session.ConfirmationURL)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, 0, f.service.PendingPayments())

	_, found := wizard.FindEffect(res.Effects, wizard.EffectShowConfirmation)
	assert.True(t, found)

	f.metrics.mu.Lock()
	assert.Equal(t, []string{"step1->step2", "step2->step3", "step3->processing", "processing->confirmed"}, f.metrics.transitions)
	assert.Equal(t, []string{outcomeSuccess}, f.metrics.outcomes)
	assert.Equal(t, 1, f.metrics.confirmed)
	f.metrics.mu.Unlock()

	f.publisher.mu.Lock()
	last := f.publisher.events[len(f.publisher.events)-1]
	f.publisher.mu.Unlock()
	assert.Equal(t, wizard.StateProcessing, last.From)
	assert.Equal(t, wizard.StateConfirmed, last.To)
	assert.Equal(t, string(wizard.EventPaymentResult), last.Event)
}

func TestService_DuplicateCallbackIsIdempotent(t *testing.T) {
	f := newFixture(t, time.Minute)
	id := f.toProcessing(t)

	first, err := f.service.CompletePayment(context.Background(), id, success())
	require.NoError(t, err)

	second, err := f.service.CompletePayment(context.Background(), id, success())
	require.NoError(t, err)

	assert.Equal(t, first.Session.BookingID, second.Session.BookingID)
	assert.Equal(t, 1, f.repo.count())
}

func TestService_ConcurrentCallbacksCreateOneBooking(t *testing.T) {
	f := newFixture(t, time.Minute)
	id := f.toProcessing(t)

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.service.CompletePayment(context.Background(), id, success())
			if err == nil {
				ids[i] = res.Session.BookingID
			}
		}(i)
	}
	wg.Wait()

	for _, got := range ids {
		assert.Equal(t, ids[0], got)
	}
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, 1, f.repo.count())
	assert.Zero(t, f.service.locks.size())
}

func TestService_FailedPaymentThenRetry(t *testing.T) {
	f := newFixture(t, time.Minute)
	id := f.toProcessing(t)

	res, err := f.service.CompletePayment(context.Background(), id, payment.Result{
		Status:  payment.ResultFailed,
		OrderID: "order_1",
		Reason:  "card_declined",
	})
	var perr *payment.PaymentError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, payment.ReasonDeclined, perr.Reason)
	assert.Equal(t, wizard.StateFailed, res.Session.State)
	assert.Equal(t, 0, f.service.PendingPayments())

	res, err = f.service.Dispatch(context.Background(), id, wizard.Retry())
	require.NoError(t, err)
	assert.Equal(t, wizard.StateStep3, res.Session.State)
	require.NotNil(t, res.Session.Summary)
	assert.Zero(t, f.repo.count())
}

func TestService_PaymentTimeoutFiresTimer(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	id := f.toProcessing(t)

	require.Eventually(t, func() bool {
		view, err := f.service.Get(context.Background(), id)
		return err == nil && view.State == wizard.StateFailed
	}, 2*time.Second, 10*time.Millisecond)

	view, err := f.service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, wizard.MsgPaymentTimeout, view.Error)

	require.Eventually(t, func() bool {
		return f.service.PendingPayments() == 0
	}, time.Second, 10*time.Millisecond)

	f.metrics.mu.Lock()
	assert.Contains(t, f.metrics.outcomes, outcomeTimeout)
	f.metrics.mu.Unlock()
}

func TestService_OverdueSessionFailsOnLoad(t *testing.T) {
	f := newFixture(t, time.Minute)
	id := f.toProcessing(t)

	// Новый экземпляр сервиса поверх того же хранилища: таймера нет
	restarted := f.newService(time.Minute)
	defer restarted.Close()

	f.clock.Advance(2 * time.Minute)

	view, err := restarted.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateFailed, view.State)
	assert.Equal(t, wizard.MsgPaymentTimeout, view.Error)
}

type failingStore struct {
	*sessionStore.MemoryStore
	failSave bool
}

func (s *failingStore) Save(ctx context.Context, session *wizard.Session) error {
	if s.failSave {
		return errors.New("store unavailable")
	}
	return s.MemoryStore.Save(ctx, session)
}

func TestService_StoreFailure(t *testing.T) {
	f := newFixture(t, time.Minute)
	store := &failingStore{MemoryStore: f.store}

	log := logger.NewNop()
	slots := availability.NewGenerator(domain.DefaultHorizonDays)
	payments := payment.NewHandler(payment.DefaultConfig(), fakeCheckout{}, f.repo, nil, nil, f.clock, log)
	svc := NewService(store, wizard.NewController(slots, payments, time.Minute, f.clock, log), slots, nil, nil, f.clock, log)
	defer svc.Close()

	view, err := svc.Create(context.Background())
	require.NoError(t, err)

	store.failSave = true
	_, err = svc.Dispatch(context.Background(), view.ID, wizard.EditFields(validInputs()))
	assert.ErrorIs(t, err, ErrInternal)

	_, err = svc.Create(context.Background())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_PaymentReplayAfterStoreFailure(t *testing.T) {
	f := newFixture(t, time.Minute)
	store := &failingStore{MemoryStore: f.store}

	log := logger.NewNop()
	slots := availability.NewGenerator(domain.DefaultHorizonDays)
	payments := payment.NewHandler(payment.DefaultConfig(), fakeCheckout{}, f.repo, nil, nil, f.clock, log)
	svc := NewService(store, wizard.NewController(slots, payments, time.Minute, f.clock, log), slots, nil, nil, f.clock, log)
	defer svc.Close()

	ctx := context.Background()
	view, err := svc.Create(ctx)
	require.NoError(t, err)
	for _, ev := range []wizard.Event{
		wizard.EditFields(validInputs()),
		wizard.Advance(),
		wizard.SelectSlot("2024-03-05", "10:30"),
		wizard.Advance(),
		wizard.AdvanceWithTerms(true),
	} {
		_, err := svc.Dispatch(ctx, view.ID, ev)
		require.NoError(t, err, string(ev.Type))
	}

	// запись сохранена, но сессия с ней не записалась
	store.failSave = true
	_, err = svc.CompletePayment(ctx, view.ID, success())
	require.ErrorIs(t, err, ErrInternal)
	require.Equal(t, 1, f.repo.count())

	// провайдер повторяет callback
	store.failSave = false
	res, err := svc.CompletePayment(ctx, view.ID, success())
	require.NoError(t, err)

	assert.Equal(t, wizard.StateConfirmed, res.Session.State)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, f.repo.saved[0].BookingID, res.Session.BookingID)
}

func TestService_RejectsEventsAfterClose(t *testing.T) {
	f := newFixture(t, time.Minute)
	view, err := f.service.Create(context.Background())
	require.NoError(t, err)

	f.service.Close()

	_, err = f.service.Dispatch(context.Background(), view.ID, wizard.Advance())
	assert.ErrorIs(t, err, ErrClosed)

	_, err = f.service.CompletePayment(context.Background(), view.ID, success())
	assert.ErrorIs(t, err, ErrClosed)

	_, err = f.service.Create(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	got, err := f.service.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateStep1, got.State)
}

func TestService_CloseStopsTimers(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.toProcessing(t)
	require.Equal(t, 1, f.service.PendingPayments())

	f.service.Close()
	assert.Equal(t, 0, f.service.PendingPayments())
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	unlock := k.Lock("a")
	assert.Equal(t, 1, k.size())

	acquired := make(chan struct{})
	go func() {
		u := k.Lock("a")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	<-acquired

	require.Eventually(t, func() bool { return k.size() == 0 }, time.Second, time.Millisecond)
}
