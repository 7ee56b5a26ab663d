package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Понедельник, 4 марта 2024, 12:00 IST
var monday = time.Date(2024, time.March, 4, 12, 0, 0, 0, domain.Location)

func TestDayTimes(t *testing.T) {
	times := DayTimes()

	require.Len(t, times, 16)
	assert.Equal(t, types.TimeString("10:00"), times[0])
	assert.Equal(t, types.TimeString("17:30"), times[len(times)-1])

	for i := 1; i < len(times); i++ {
		prev, _ := times[i-1].Minutes()
		cur, _ := times[i].Minutes()
		assert.Equal(t, 30, cur-prev)
	}
}

func TestGenerateSlots_SkipsTodayAndWeekends(t *testing.T) {
	days := GenerateSlots(monday, 14)

	// 14 календарных дней со вторника 5 марта по понедельник 18 марта, 10 из них будние
	require.Len(t, days, 10)
	assert.Equal(t, "2024-03-05", days[0].DateString())
	assert.Equal(t, "2024-03-18", days[len(days)-1].DateString())

	for _, d := range days {
		assert.NotEqual(t, time.Saturday, d.Date.Weekday())
		assert.NotEqual(t, time.Sunday, d.Date.Weekday())
		assert.True(t, d.Date.After(monday))
		assert.Len(t, d.Times, 16)
	}

	for i := 1; i < len(days); i++ {
		assert.True(t, days[i].Date.After(days[i-1].Date))
	}
}

func TestGenerateSlots_FridayStartsOnMonday(t *testing.T) {
	friday := time.Date(2024, time.March, 8, 9, 0, 0, 0, domain.Location)

	days := GenerateSlots(friday, 3)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-03-11", days[0].DateString())
}

func TestGenerateSlots_UsesISTCalendarDay(t *testing.T) {
	// 20:00 UTC воскресенья = 01:30 IST понедельника
	now := time.Date(2024, time.March, 3, 20, 0, 0, 0, time.UTC)

	days := GenerateSlots(now, 1)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-03-05", days[0].DateString())
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	assert.Equal(t, GenerateSlots(monday, 14), GenerateSlots(monday, 14))
}

func TestGenerator_Contains(t *testing.T) {
	g := NewGenerator(14)

	assert.True(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-05", Time: "10:00"}))
	assert.True(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-18", Time: "17:30"}))

	assert.False(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-04", Time: "14:00"}), "today")
	assert.False(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-09", Time: "10:00"}), "saturday")
	assert.False(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-05", Time: "18:00"}), "after hours")
	assert.False(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-05", Time: "10:15"}), "off grid")
	assert.False(t, g.Contains(monday, domain.TimeSlot{Date: "2024-03-19", Time: "10:00"}), "beyond horizon")
}

func TestNewGenerator_DefaultHorizon(t *testing.T) {
	g := NewGenerator(0)
	assert.Len(t, g.Slots(monday), 10)
}
