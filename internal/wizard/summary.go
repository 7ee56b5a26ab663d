package wizard

import (
	"strconv"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// SummaryItem строка сводки
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SummarySection раздел сводки
type SummarySection struct {
	Title string        `json:"title"`
	Items []SummaryItem `json:"items"`
}

// Summary сводка бронирования на шаге 3
type Summary struct {
	Sections []SummarySection `json:"sections"`
}

// BuildSummary собирает сводку из черновика
func BuildSummary(draft *domain.Draft) *Summary {
	details := draft.Step(domain.StepDetails)

	consultation := []SummaryItem{}
	if draft.Slot != nil {
		consultation = append(consultation,
			SummaryItem{Label: "Date", Value: FormatLongDate(draft.Slot)},
			SummaryItem{Label: "Time", Value: draft.Slot.Time.String() + " " + domain.TimeZoneLabel},
		)
	}
	consultation = append(consultation,
		SummaryItem{Label: "Duration", Value: domain.ConsultationDuration},
		SummaryItem{Label: "Platform", Value: domain.ConsultationPlatform},
	)

	return &Summary{Sections: []SummarySection{
		{
			Title: "Personal Details",
			Items: []SummaryItem{
				{Label: "Name", Value: details[domain.FieldFullName]},
				{Label: "Email", Value: details[domain.FieldEmail]},
				{Label: "Phone", Value: details[domain.FieldPhone]},
			},
		},
		{
			Title: "Organization Details",
			Items: []SummaryItem{
				{Label: "Organization", Value: details[domain.FieldOrgName]},
				{Label: "Type", Value: domain.DisplayValue(details[domain.FieldOrgType])},
				{Label: "Team Size", Value: domain.DisplayValue(details[domain.FieldTeamSize])},
				{Label: "Primary Game", Value: details[domain.FieldPrimaryGame]},
			},
		},
		{
			Title: "Consultation Details",
			Items: consultation,
		},
		{
			Title: "Payment",
			Items: []SummaryItem{
				{Label: "Consultation Fee", Value: FormatRupees(domain.ConsultationFee)},
			},
		},
	}}
}

// Item ищет значение строки сводки по разделу и подписи
func (s *Summary) Item(section, label string) (string, bool) {
	for _, sec := range s.Sections {
		if sec.Title != section {
			continue
		}
		for _, item := range sec.Items {
			if item.Label == label {
				return item.Value, true
			}
		}
	}
	return "", false
}

// FormatLongDate дата слота в виде "Tuesday, 5 March 2024"
func FormatLongDate(slot *domain.SelectedSlot) string {
	if !slot.DateTime.IsZero() {
		return slot.DateTime.In(domain.Location).Format(domain.LongDateFormat)
	}
	at, err := domain.TimeSlot{Date: slot.Date, Time: slot.Time}.DateTime()
	if err != nil {
		return slot.Date
	}
	return at.Format(domain.LongDateFormat)
}

// FormatRupees сумма в рупиях с индийской группировкой разрядов: 300000 -> ₹3,00,000
func FormatRupees(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return sign + "₹" + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	grouped := ""
	for len(head) > 2 {
		grouped = "," + head[len(head)-2:] + grouped
		head = head[:len(head)-2]
	}

	return sign + "₹" + head + grouped + "," + tail
}
