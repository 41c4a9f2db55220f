package appointments

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	"github.com/m04kA/CRM-SchedulingService/internal/integrations/crmcore"
)

// AppointmentRepository интерфейс репозитория бронирований
type AppointmentRepository interface {
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Appointment, error)
	Cancel(ctx context.Context, publicID uuid.UUID, reason *string) error
}

// CalendarRepository интерфейс каталога услуг
type CalendarRepository interface {
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// EventPublisher интерфейс публикации событий в ядро CRM
type EventPublisher interface {
	PublishAppointmentCancelledWithGracefulDegradation(ctx context.Context, event crmcore.AppointmentCancelledEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
