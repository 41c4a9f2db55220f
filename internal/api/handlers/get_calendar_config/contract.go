package get_calendar_config

import (
	"context"

	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg/models"
)

type CalendarConfigService interface {
	Get(ctx context.Context) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
