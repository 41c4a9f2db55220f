package get_appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
