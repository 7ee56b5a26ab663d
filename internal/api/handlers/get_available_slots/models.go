package get_available_slots

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

// DayResponse слоты одного дня
type DayResponse struct {
	Date      string   `json:"date"`      // "2024-03-05"
	DateLabel string   `json:"dateLabel"` // "Tuesday, 5 March 2024"
	Weekday   string   `json:"weekday"`
	Times     []string `json:"times"` // ["10:00", "10:30", ...]
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	TimeZone     string        `json:"timeZone"`
	SlotMinutes  int           `json:"slotMinutes"`
	Days         []DayResponse `json:"days"`
	SelectedDate string        `json:"selectedDate,omitempty"`
	SelectedTime string        `json:"selectedTime,omitempty"`
}

// FromSlotsView конвертирует результат сервиса в HTTP ответ
func FromSlotsView(view *models.SlotsView) *AvailableSlotsResponse {
	resp := &AvailableSlotsResponse{
		TimeZone:    domain.TimeZoneLabel,
		SlotMinutes: domain.SlotDurationMinutes,
		Days:        make([]DayResponse, 0, len(view.Days)),
	}

	for _, day := range view.Days {
		times := make([]string, 0, len(day.Times))
		for _, t := range day.Times {
			times = append(times, t.String())
		}
		resp.Days = append(resp.Days, DayResponse{
			Date:      day.DateString(),
			DateLabel: day.Date.Format(domain.LongDateFormat),
			Weekday:   day.Date.Weekday().String(),
			Times:     times,
		})
	}

	if view.Selection != nil {
		resp.SelectedDate = view.Selection.Date
		resp.SelectedTime = view.Selection.Time.String()
	}

	return resp
}
