package embedconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured возвращается, когда конфигурация неполна или противоречива
	// и виджет не может быть отрисован
	ErrNotConfigured = errors.New("embed is not configured")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// ConfigurationError ошибка конфигурации с причиной для администратора
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("embed is not configured: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}
