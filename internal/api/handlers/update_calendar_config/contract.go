package update_calendar_config

import (
	"context"

	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg/models"
)

type CalendarConfigService interface {
	Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
