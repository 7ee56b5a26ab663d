package wizard

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// PaymentAttempt открытая попытка оплаты
type PaymentAttempt struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	CheckoutURL string    `json:"checkoutUrl"`
	StartedAt   time.Time `json:"startedAt"`
	Deadline    time.Time `json:"deadline"`
}

// Session состояние мастера одного пользователя. Сериализуется в JSON для хранилища сессий
type Session struct {
	ID          string            `json:"id"`
	State       State             `json:"state"`
	Inputs      map[string]string `json:"inputs"`
	FieldErrors map[string]string `json:"fieldErrors"`
	Selection   *domain.TimeSlot  `json:"selection,omitempty"`
	Draft       *domain.Draft     `json:"draft"`
	Payment     *PaymentAttempt   `json:"payment,omitempty"`

	// PersistPending запись создана, но еще не сохранена
	PersistPending bool   `json:"persistPending"`
	LastError      string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession создает сессию на первом шаге
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:          id,
		State:       StateStep1,
		Inputs:      make(map[string]string),
		FieldErrors: make(map[string]string),
		Draft:       domain.NewDraft(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Record запись о бронировании, если она уже создана
func (s *Session) Record() *domain.BookingRecord {
	if s.Draft == nil {
		return nil
	}
	return s.Draft.Record
}

// BookingID идентификатор бронирования или пустая строка
func (s *Session) BookingID() string {
	if rec := s.Record(); rec != nil {
		return rec.BookingID
	}
	return ""
}

func (s *Session) ensureMaps() {
	if s.Inputs == nil {
		s.Inputs = make(map[string]string)
	}
	if s.FieldErrors == nil {
		s.FieldErrors = make(map[string]string)
	}
	if s.Draft == nil {
		s.Draft = domain.NewDraft()
	}
}
