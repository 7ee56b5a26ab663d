package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// DaySlots is one bookable day and its start times, in order.
type DaySlots struct {
	Date  time.Time          `json:"date"`
	Times []types.TimeString `json:"times"`
}

// DateString returns the day as YYYY-MM-DD.
func (d DaySlots) DateString() string {
	return d.Date.Format(DateFormat)
}

// TimeSlot is a {date, time} pair the user picked on step 2.
type TimeSlot struct {
	Date string           `json:"date"` // YYYY-MM-DD
	Time types.TimeString `json:"time"`
}

// DateTime resolves the slot to an instant in Location.
func (s TimeSlot) DateTime() (time.Time, error) {
	day, err := time.ParseInLocation(DateFormat, s.Date, Location)
	if err != nil {
		return time.Time{}, err
	}
	return s.Time.On(day)
}

// SelectedSlot is the slot committed to the draft after step 2 validation.
type SelectedSlot struct {
	Date     string           `json:"date"`
	Time     types.TimeString `json:"time"`
	DateTime time.Time        `json:"dateTime"`
}

// NewSelectedSlot resolves a picked slot into its committed form.
func NewSelectedSlot(slot TimeSlot) (SelectedSlot, error) {
	at, err := slot.DateTime()
	if err != nil {
		return SelectedSlot{}, err
	}
	return SelectedSlot{Date: slot.Date, Time: slot.Time, DateTime: at}, nil
}
