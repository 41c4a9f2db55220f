package crmcore

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("crmcore client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от ядра CRM
	ErrInvalidResponse = errors.New("crmcore client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Недоступность ядра CRM не должна ломать бронирование - событие просто теряется в логах
	ErrServiceDegraded = errors.New("crmcore unavailable: graceful degradation applied")
)
