package wizard

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// State состояние мастера бронирования
type State string

const (
	StateStep1      State = "step1"
	StateStep2      State = "step2"
	StateStep3      State = "step3"
	StateProcessing State = "processing"
	StateConfirmed  State = "confirmed"
	StateFailed     State = "failed"
)

// AllowedTransitions допустимые переходы между состояниями
var AllowedTransitions = map[State][]State{
	StateStep1:      {StateStep2},
	StateStep2:      {StateStep1, StateStep3},
	StateStep3:      {StateStep2, StateProcessing},
	StateProcessing: {StateConfirmed, StateFailed},
	StateFailed:     {StateStep3},
	StateConfirmed:  {},
}

// CanTransition проверяет, разрешен ли переход from -> to
func CanTransition(from, to State) bool {
	for _, allowed := range AllowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValid true для известных состояний
func (s State) IsValid() bool {
	_, ok := AllowedTransitions[s]
	return ok
}

// IsTerminal true для конечного состояния
func (s State) IsTerminal() bool {
	return s == StateConfirmed
}

// Step номер отображаемого шага. Оплата, ошибка и подтверждение относятся к шагу 4
func (s State) Step() int {
	switch s {
	case StateStep1:
		return domain.StepDetails
	case StateStep2:
		return domain.StepSlot
	case StateStep3:
		return domain.StepSummary
	default:
		return domain.StepPayment
	}
}

// Progress доля пройденных шагов в процентах
func (s State) Progress() float64 {
	return float64(s.Step()) / float64(domain.TotalSteps) * 100
}
