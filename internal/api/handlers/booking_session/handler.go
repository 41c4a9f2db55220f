package booking_session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	bookingFlow "github.com/m04kA/CRM-SchedulingService/internal/usecase/booking_flow"
	reserveSlot "github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgInvalidStep        = "операция недоступна на текущем шаге"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceNotBookable = "услуга недоступна для записи"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSlotNotOffered     = "слот отсутствует среди предложенных"
	msgSlotNoLongerAvail  = "слот больше недоступен, выберите другое время"
	msgValidationFailed   = "ошибка валидации контактных данных"

	reasonInvalidStep       = "invalid_step"
	reasonSlotNotOffered    = "slot_not_offered"
	reasonSlotNoLongerAvail = "slot_no_longer_available"
)

type Handler struct {
	useCase BookingFlowUseCase
	logger  Logger
}

func NewHandler(useCase BookingFlowUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleStart POST /api/v1/sessions
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Start(r.Context(), &bookingFlow.StartRequest{ServiceID: req.ServiceID})
	if err != nil {
		switch {
		case errors.Is(err, bookingFlow.ErrServiceNotFound):
			h.logger.Warn("POST /sessions - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, bookingFlow.ErrServiceNotBookable):
			h.logger.Warn("POST /sessions - Service not bookable: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotBookable)

		default:
			h.logger.Error("POST /sessions - Failed to start session: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions - Session started: session_id=%s, service_id=%d",
		result.Session.SessionID, req.ServiceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// HandleGet GET /api/v1/sessions/{sessionId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.useCase.Get(r.Context(), sessionID)
	if err != nil {
		h.respondFlowError(w, "GET /sessions/{id}", sessionID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleSelectDate POST /api/v1/sessions/{sessionId}/select-date
func (h *Handler) HandleSelectDate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req SelectDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/select-date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.SelectDate(r.Context(), &bookingFlow.SelectDateRequest{
		SessionID: sessionID,
		Date:      req.Date,
	})
	if err != nil {
		h.respondFlowError(w, "POST /sessions/{id}/select-date", sessionID, err)
		return
	}

	h.logger.Info("POST /sessions/{id}/select-date - Date selected: session_id=%s, date=%s, slots_count=%d",
		sessionID, req.Date, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleSelectSlot POST /api/v1/sessions/{sessionId}/select-slot
func (h *Handler) HandleSelectSlot(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req SelectSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/select-slot - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.SelectSlot(r.Context(), &bookingFlow.SelectSlotRequest{
		SessionID: sessionID,
		StartAt:   req.StartAt,
	})
	if err != nil {
		h.respondFlowError(w, "POST /sessions/{id}/select-slot", sessionID, err)
		return
	}

	h.logger.Info("POST /sessions/{id}/select-slot - Slot selected: session_id=%s, start_at=%s",
		sessionID, req.StartAt)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleSubmit POST /api/v1/sessions/{sessionId}/submit
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/submit - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Submit(r.Context(), &bookingFlow.SubmitRequest{
		SessionID: sessionID,
		Contact:   req.ToDomainContact(),
	})
	if err != nil {
		var vErr *reserveSlot.ValidationError

		switch {
		// Конфликт: сессия откатилась на выбор времени, её состояние идёт в теле 409
		case errors.Is(err, bookingFlow.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /sessions/{id}/submit - Slot no longer available: session_id=%s", sessionID)
			payload := handlers.ErrorResponse{Error: handlers.ErrorBody{
				Code:    http.StatusConflict,
				Message: msgSlotNoLongerAvail,
				Reason:  reasonSlotNoLongerAvail,
			}}
			body := struct {
				handlers.ErrorResponse
				Session *SessionResponse `json:"session,omitempty"`
			}{ErrorResponse: payload}
			if result != nil {
				body.Session = FromUseCaseResponse(result)
			}
			handlers.RespondJSON(w, http.StatusConflict, body)

		case errors.As(err, &vErr):
			h.logger.Warn("POST /sessions/{id}/submit - Validation failed: session_id=%s, fields=%d",
				sessionID, len(vErr.Fields))
			fields := make([]handlers.FieldError, 0, len(vErr.Fields))
			for _, f := range vErr.Fields {
				fields = append(fields, handlers.FieldError{Field: f.Field, Message: f.Message})
			}
			handlers.RespondValidationError(w, msgValidationFailed, fields)

		case errors.Is(err, bookingFlow.ErrStoreUnavailable):
			h.logger.Error("POST /sessions/{id}/submit - Store unavailable: session_id=%s, error=%v",
				sessionID, err)
			handlers.RespondServiceUnavailable(w)

		default:
			h.respondFlowError(w, "POST /sessions/{id}/submit", sessionID, err)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/submit - Booking confirmed: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// HandleBack POST /api/v1/sessions/{sessionId}/back
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	result, err := h.useCase.Back(r.Context(), sessionID)
	if err != nil {
		h.respondFlowError(w, "POST /sessions/{id}/back", sessionID, err)
		return
	}

	h.logger.Info("POST /sessions/{id}/back - Stepped back: session_id=%s, step=%s",
		sessionID, result.Session.Step)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)

	sessionID, err := uuid.Parse(vars["sessionId"])
	if err != nil {
		h.logger.Warn("sessions - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return uuid.Nil, false
	}
	return sessionID, true
}

// respondFlowError обрабатывает общие для всех операций визарда ошибки
func (h *Handler) respondFlowError(w http.ResponseWriter, route string, sessionID uuid.UUID, err error) {
	switch {
	case errors.Is(err, bookingFlow.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%s", route, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, bookingFlow.ErrInvalidStep):
		h.logger.Warn("%s - Invalid step: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondErrorWithReason(w, http.StatusConflict, msgInvalidStep, reasonInvalidStep)

	case errors.Is(err, bookingFlow.ErrInvalidDate):
		h.logger.Warn("%s - Invalid date: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)

	case errors.Is(err, bookingFlow.ErrSlotNotOffered):
		h.logger.Warn("%s - Slot not offered: session_id=%s", route, sessionID)
		handlers.RespondErrorWithReason(w, http.StatusConflict, msgSlotNotOffered, reasonSlotNotOffered)

	case errors.Is(err, bookingFlow.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: session_id=%s", route, sessionID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, bookingFlow.ErrServiceNotBookable):
		h.logger.Warn("%s - Service not bookable: session_id=%s", route, sessionID)
		handlers.RespondBadRequest(w, msgServiceNotBookable)

	case errors.Is(err, bookingFlow.ErrStoreUnavailable):
		h.logger.Error("%s - Store unavailable: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondServiceUnavailable(w)

	default:
		h.logger.Error("%s - Unexpected error: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
