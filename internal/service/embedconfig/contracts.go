package embedconfig

import (
	"context"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календаря и каталога услуг
type CalendarRepository interface {
	GetConfig(ctx context.Context) (*domain.CalendarConfig, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
