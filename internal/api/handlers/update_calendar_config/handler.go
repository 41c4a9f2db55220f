package update_calendar_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg"
	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidData        = "некорректные данные конфигурации"
	msgServiceNotFound    = "услуга по умолчанию не найдена"
)

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

// Handle PUT /api/v1/calendar-config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /calendar-config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, calendarcfg.ErrInvalidInput):
			h.logger.Warn("PUT /calendar-config - Invalid config data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, calendarcfg.ErrServiceNotFound):
			h.logger.Warn("PUT /calendar-config - Default service not found: %v", err)
			handlers.RespondBadRequest(w, msgServiceNotFound)

		default:
			h.logger.Error("PUT /calendar-config - Failed to update config: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /calendar-config - Config updated")
	handlers.RespondJSON(w, http.StatusOK, result)
}
