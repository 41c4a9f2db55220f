package calendarcfg

import (
	"context"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// CalendarRepository интерфейс репозитория календаря и каталога услуг
type CalendarRepository interface {
	GetConfig(ctx context.Context) (*domain.CalendarConfig, error)
	CreateConfig(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error)
	UpdateConfig(ctx context.Context, cfg *domain.CalendarConfig) (*domain.CalendarConfig, error)
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
