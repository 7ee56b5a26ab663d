package select_slot

// SelectSlotRequest выбранный слот
type SelectSlotRequest struct {
	Date string `json:"date"` // "2024-03-05"
	Time string `json:"time"` // "10:30"
}
