package booking_flow

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	"github.com/m04kA/CRM-SchedulingService/internal/session"
)

// StartRequest модель запроса на создание сессии бронирования
type StartRequest struct {
	ServiceID int64 // ID услуги
}

// SelectDateRequest модель запроса выбора даты
type SelectDateRequest struct {
	SessionID uuid.UUID
	Date      string // Дата в часовом поясе календаря, формат 2006-01-02
}

// SelectSlotRequest модель запроса выбора слота
type SelectSlotRequest struct {
	SessionID uuid.UUID
	StartAt   time.Time // Момент начала слота (UTC)
}

// SubmitRequest модель запроса подтверждения бронирования
type SubmitRequest struct {
	SessionID uuid.UUID
	Contact   domain.Contact
}

// Slot модель слота в ответах визарда
type Slot struct {
	StartAt         time.Time
	DurationMinutes int
}

// SessionState снимок состояния сессии для ответа API
type SessionState struct {
	SessionID             uuid.UUID
	Step                  session.Step
	ServiceID             int64
	SelectedDate          string
	SelectedSlot          *Slot
	SlotNoLongerAvailable bool
	AppointmentID         *uuid.UUID
	ExpiresAt             time.Time
}

// Response модель ответа визарда: состояние сессии и,
// на шаге time, список доступных слотов выбранной даты
type Response struct {
	Session SessionState
	Slots   []Slot
}

func sessionState(s *session.Session) SessionState {
	state := SessionState{
		SessionID:             s.ID,
		Step:                  s.Step,
		ServiceID:             s.ServiceID,
		SelectedDate:          s.SelectedDate,
		SlotNoLongerAvailable: s.SlotNoLongerAvailable,
		AppointmentID:         s.AppointmentID,
		ExpiresAt:             s.ExpiresAt,
	}
	if s.SelectedSlot != nil {
		state.SelectedSlot = &Slot{
			StartAt:         s.SelectedSlot.StartAt,
			DurationMinutes: s.SelectedSlot.DurationMinutes,
		}
	}
	return state
}
