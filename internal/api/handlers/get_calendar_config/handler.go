package get_calendar_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg"
)

const msgNotFound = "конфигурация календаря не найдена"

type Handler struct {
	service CalendarConfigService
	logger  Logger
}

func NewHandler(service CalendarConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendar-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Get(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, calendarcfg.ErrConfigNotFound):
			h.logger.Warn("GET /calendar-config - Config not found")
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /calendar-config - Failed to get config: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /calendar-config - Config retrieved")
	handlers.RespondJSON(w, http.StatusOK, result)
}
