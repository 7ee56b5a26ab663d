package update_fields

// UpdateFieldsRequest значения полей шага 1 (частичное обновление)
type UpdateFieldsRequest struct {
	Fields map[string]string `json:"fields"`
}
