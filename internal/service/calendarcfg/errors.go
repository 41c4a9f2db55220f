package calendarcfg

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация календаря не задана
	ErrConfigNotFound = errors.New("calendar config not found")

	// ErrServiceNotFound возвращается, когда услуга по умолчанию не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
