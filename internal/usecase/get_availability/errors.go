package get_availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("get_availability: service not found")

	// ErrServiceNotBookable возвращается, когда услуга снята с публикации
	ErrServiceNotBookable = errors.New("get_availability: service is not bookable")

	// ErrCalendarNotConfigured возвращается, когда конфигурация календаря отсутствует
	ErrCalendarNotConfigured = errors.New("get_availability: calendar is not configured")

	// ErrInvalidCalendarConfig возвращается при нарушении инвариантов конфигурации
	// Генератор слотов не запускается против сломанной конфигурации
	ErrInvalidCalendarConfig = errors.New("get_availability: invalid calendar config")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrRangeTooWide возвращается, когда запрошенный период превышает допустимый
	ErrRangeTooWide = errors.New("get_availability: requested range is too wide")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
