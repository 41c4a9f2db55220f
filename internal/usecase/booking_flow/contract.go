package booking_flow

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	"github.com/m04kA/CRM-SchedulingService/internal/session"
	"github.com/m04kA/CRM-SchedulingService/internal/usecase/get_availability"
	"github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

// SessionStore интерфейс хранилища сессий бронирования
type SessionStore interface {
	Create(serviceID int64) *session.Session
	Get(id uuid.UUID) (*session.Session, error)
	Update(id uuid.UUID, fn func(s *session.Session) error) (*session.Session, error)
}

// AvailabilityProvider интерфейс расчёта доступных слотов
type AvailabilityProvider interface {
	Execute(ctx context.Context, req *get_availability.Request) (*get_availability.Response, error)
}

// SlotReserver интерфейс резервирования слота
type SlotReserver interface {
	Execute(ctx context.Context, req *reserve_slot.Request) (*reserve_slot.Response, error)
}

// CalendarRepository интерфейс репозитория календаря и каталога услуг
type CalendarRepository interface {
	GetConfig(ctx context.Context) (*domain.CalendarConfig, error)
	GetServiceByID(ctx context.Context, id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
