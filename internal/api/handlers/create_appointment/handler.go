package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRM-SchedulingService/pkg/metrics"

	reserveSlot "github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgSlotTaken             = "выбранный слот уже занят"
	msgServiceNotFound       = "услуга не найдена"
	msgServiceNotBookable    = "услуга недоступна для записи"
	msgCalendarNotConfigured = "календарь не настроен"
	msgInvalidSlot           = "слот не попадает в рабочую сетку календаря"
	msgTooLateToBook         = "слишком поздно для бронирования этого слота"
	msgValidationFailed      = "ошибка валидации контактных данных"

	reasonSlotTaken = "slot_taken"
)

type Handler struct {
	useCase ReserveSlotUseCase
	metrics ReservationMetrics
	logger  Logger
}

func NewHandler(useCase ReserveSlotUseCase, m ReservationMetrics, logger Logger) *Handler {
	if m == nil {
		m = NoopMetrics{}
	}
	return &Handler{
		useCase: useCase,
		metrics: m,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var vErr *reserveSlot.ValidationError

		switch {
		case errors.Is(err, reserveSlot.ErrSlotConflict):
			h.metrics.IncReservation(metrics.OutcomeConflict)
			h.logger.Warn("POST /appointments - Slot taken: service_id=%d, start_at=%s",
				req.ServiceID, req.StartAt)
			handlers.RespondErrorWithReason(w, http.StatusConflict, msgSlotTaken, reasonSlotTaken)

		case errors.As(err, &vErr):
			h.metrics.IncReservation(metrics.OutcomeValidation)
			h.logger.Warn("POST /appointments - Validation failed: service_id=%d, fields=%d",
				req.ServiceID, len(vErr.Fields))
			handlers.RespondValidationError(w, msgValidationFailed, toFieldErrors(vErr))

		case errors.Is(err, reserveSlot.ErrServiceNotFound):
			h.metrics.IncReservation(metrics.OutcomeValidation)
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, reserveSlot.ErrServiceNotBookable):
			h.metrics.IncReservation(metrics.OutcomeValidation)
			h.logger.Warn("POST /appointments - Service not bookable: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotBookable)

		case errors.Is(err, reserveSlot.ErrCalendarNotConfigured),
			errors.Is(err, reserveSlot.ErrInvalidCalendarConfig):
			h.metrics.IncReservation(metrics.OutcomeError)
			h.logger.Error("POST /appointments - Calendar misconfigured: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCalendarNotConfigured)

		case errors.Is(err, reserveSlot.ErrInvalidSlot):
			h.metrics.IncReservation(metrics.OutcomeValidation)
			h.logger.Warn("POST /appointments - Invalid slot: service_id=%d, start_at=%s",
				req.ServiceID, req.StartAt)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, reserveSlot.ErrTooLateToBook):
			h.metrics.IncReservation(metrics.OutcomeValidation)
			h.logger.Warn("POST /appointments - Too late to book: service_id=%d, start_at=%s",
				req.ServiceID, req.StartAt)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, reserveSlot.ErrStoreUnavailable):
			h.metrics.IncReservation(metrics.OutcomeUnavailable)
			h.logger.Error("POST /appointments - Store unavailable: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.metrics.IncReservation(metrics.OutcomeError)
			h.logger.Error("POST /appointments - Failed to reserve slot: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.metrics.IncReservation(metrics.OutcomeConfirmed)
	h.logger.Info("POST /appointments - Appointment created: appointment_id=%s, service_id=%d",
		result.AppointmentID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func toFieldErrors(vErr *reserveSlot.ValidationError) []handlers.FieldError {
	fields := make([]handlers.FieldError, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, handlers.FieldError{Field: f.Field, Message: f.Message})
	}
	return fields
}
