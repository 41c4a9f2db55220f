package get_embed_config

import (
	"context"

	"github.com/m04kA/CRM-SchedulingService/internal/service/embedconfig/models"
)

type EmbedConfigService interface {
	Emit(ctx context.Context) (*models.EmbedConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
