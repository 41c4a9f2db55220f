package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	getAvailability "github.com/m04kA/CRM-SchedulingService/internal/usecase/get_availability"
)

const (
	msgMissingServiceID      = "ID услуги обязателен"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgMissingRange          = "параметры rangeStart и rangeEnd обязательны"
	msgInvalidRange          = "некорректный формат периода, ожидается RFC3339"
	msgRangeTooWide          = "запрошенный период слишком велик"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceNotBookable    = "услуга недоступна для записи"
	msgCalendarNotConfigured = "календарь не настроен"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: serviceId (required), rangeStart, rangeEnd (required, RFC3339)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	rangeStartStr := query.Get("rangeStart")
	rangeEndStr := query.Get("rangeEnd")
	if rangeStartStr == "" || rangeEndStr == "" {
		h.logger.Warn("GET /availability - Missing range params")
		handlers.RespondBadRequest(w, msgMissingRange)
		return
	}

	rangeStart, err := time.Parse(time.RFC3339, rangeStartStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid rangeStart: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}
	rangeEnd, err := time.Parse(time.RFC3339, rangeEndStr)
	if err != nil {
		h.logger.Warn("GET /availability - Invalid rangeEnd: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRange)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(serviceID, rangeStart, rangeEnd))
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrServiceNotBookable):
			h.logger.Warn("GET /availability - Service not bookable: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgServiceNotBookable)

		case errors.Is(err, getAvailability.ErrCalendarNotConfigured):
			h.logger.Warn("GET /availability - Calendar not configured")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarNotConfigured)

		case errors.Is(err, getAvailability.ErrRangeTooWide):
			h.logger.Warn("GET /availability - Range too wide: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgRangeTooWide)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /availability - Failed to get slots: service_id=%d, error=%v", serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Slots retrieved successfully: service_id=%d, slots_count=%d",
		serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
