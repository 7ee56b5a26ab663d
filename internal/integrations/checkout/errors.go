package checkout

import "errors"

var (
	// ErrInvalidIntent возвращается при некорректных параметрах оплаты
	ErrInvalidIntent = errors.New("checkout client: invalid intent")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("checkout client: internal error")
)
