package availability

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Generator выдает слоты консультаций на горизонт horizonDays дней
type Generator struct {
	horizonDays int
}

// NewGenerator создает генератор. Непозитивный горизонт заменяется значением по умолчанию
func NewGenerator(horizonDays int) *Generator {
	if horizonDays <= 0 {
		horizonDays = domain.DefaultHorizonDays
	}
	return &Generator{horizonDays: horizonDays}
}

// Slots возвращает доступные дни и время относительно now
func (g *Generator) Slots(now time.Time) []domain.DaySlots {
	return GenerateSlots(now, g.horizonDays)
}

// Contains проверяет, что слот входит в выдачу генератора для now
func (g *Generator) Contains(now time.Time, slot domain.TimeSlot) bool {
	for _, day := range g.Slots(now) {
		if day.DateString() != slot.Date {
			continue
		}
		for _, t := range day.Times {
			if t == slot.Time {
				return true
			}
		}
		return false
	}
	return false
}

// GenerateSlots строит слоты на дни now+1 .. now+horizonDays в часовом поясе IST.
// Выходные пропускаются, время с 10:00 до 17:30 с шагом 30 минут.
// Результат детерминирован для одного и того же now
func GenerateSlots(now time.Time, horizonDays int) []domain.DaySlots {
	local := now.In(domain.Location)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, domain.Location)

	times := DayTimes()
	days := make([]domain.DaySlots, 0, horizonDays)

	for offset := 1; offset <= horizonDays; offset++ {
		date := today.AddDate(0, 0, offset)
		if isWeekend(date) {
			continue
		}

		dayTimes := make([]types.TimeString, len(times))
		copy(dayTimes, times)

		days = append(days, domain.DaySlots{Date: date, Times: dayTimes})
	}

	return days
}

// DayTimes генерирует время начала слотов в рабочем дне.
// Слот попадает в выдачу, только если заканчивается не позже закрытия
func DayTimes() []types.TimeString {
	openTime := types.TimeString(domain.BusinessOpenTime)
	closeTime := types.TimeString(domain.BusinessCloseTime)

	slots := make([]types.TimeString, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		slotEnd, err := current.AddMinutes(domain.SlotDurationMinutes)
		if err != nil || slotEnd.IsAfter(closeTime) {
			break
		}

		slots = append(slots, current)
		current = slotEnd
	}

	return slots
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
