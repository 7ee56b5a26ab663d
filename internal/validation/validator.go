package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Сообщения, которые видит пользователь
const (
	MsgRequired      = "This field is required"
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgInvalidPhone  = "Please enter a valid phone number"
	MsgChallengeMin  = "Please provide at least 200 characters describing your challenge"
	MsgInvalidOption = "Please select a valid option"
	MsgUnknownField  = "Unknown field"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// Result результат проверки одного поля
type Result struct {
	Valid   bool
	Message string
}

func ok() Result {
	return Result{Valid: true}
}

func fail(msg string) Result {
	return Result{Valid: false, Message: msg}
}

// ValidateField проверяет значение поля. Правила применяются по порядку,
// побеждает первое нарушенное. Функция чистая
func ValidateField(spec domain.FieldSpec, value string) Result {
	trimmed := strings.TrimSpace(value)

	// 1. Обязательное поле
	if spec.Required && trimmed == "" {
		return fail(MsgRequired)
	}

	// Необязательное пустое поле прочие правила не проверяют
	if trimmed == "" {
		return ok()
	}

	switch spec.Kind {
	case domain.KindEmail:
		// 2. Email
		if !emailPattern.MatchString(trimmed) {
			return fail(MsgInvalidEmail)
		}

	case domain.KindPhone:
		// 3. Телефон: пробелы внутри номера допустимы
		if !phonePattern.MatchString(stripSpaces(value)) {
			return fail(MsgInvalidPhone)
		}

	case domain.KindLongText:
		// 4. Длинный текст, длина считается по исходному значению
		if utf8.RuneCountInString(value) < spec.MinLength {
			return fail(MsgChallengeMin)
		}

	case domain.KindSelect:
		if len(spec.Options) > 0 && !spec.HasOption(trimmed) {
			return fail(MsgInvalidOption)
		}
	}

	return ok()
}

// ValidateStep1 проверяет все поля первого шага. Запись шага возвращается только
// если прошли все поля, иначе nil и ошибки по каждому полю
func ValidateStep1(values map[string]string) (domain.StepRecord, error) {
	var errs Errors
	record := make(domain.StepRecord, len(domain.Step1Fields))

	for _, spec := range domain.Step1Fields {
		value := values[spec.Name]
		if res := ValidateField(spec, value); !res.Valid {
			errs = append(errs, &ValidationError{Field: spec.Name, Message: res.Message})
			continue
		}
		record[spec.Name] = normalize(spec, value)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return record, nil
}

// ValidateNamedField проверяет поле первого шага по имени
func ValidateNamedField(name, value string) Result {
	spec, found := domain.LookupField(name)
	if !found {
		return fail(MsgUnknownField)
	}
	return ValidateField(spec, value)
}

// normalize приводит значение к виду, в котором оно попадает в запись шага
func normalize(spec domain.FieldSpec, value string) string {
	switch spec.Kind {
	case domain.KindPhone:
		return stripSpaces(value)
	case domain.KindLongText:
		return value
	default:
		return strings.TrimSpace(value)
	}
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
