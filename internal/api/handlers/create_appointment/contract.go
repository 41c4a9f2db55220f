package create_appointment

import (
	"context"

	reserveSlot "github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

type ReserveSlotUseCase interface {
	Execute(ctx context.Context, req *reserveSlot.Request) (*reserveSlot.Response, error)
}

// ReservationMetrics счётчик исходов резервирования, nil-safe через NoopMetrics
type ReservationMetrics interface {
	IncReservation(outcome string)
}

// NoopMetrics заглушка метрик, когда prometheus выключен в конфигурации
type NoopMetrics struct{}

func (NoopMetrics) IncReservation(string) {}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
