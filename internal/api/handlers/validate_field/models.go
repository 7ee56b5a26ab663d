package validate_field

// ValidateFieldRequest необязательное новое значение поля перед проверкой
type ValidateFieldRequest struct {
	Value *string `json:"value,omitempty"`
}
