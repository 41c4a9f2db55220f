package booking_session

import (
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	bookingFlow "github.com/m04kA/CRM-SchedulingService/internal/usecase/booking_flow"
)

// Request модели

// StartSessionRequest запрос на создание сессии бронирования
type StartSessionRequest struct {
	ServiceID int64 `json:"serviceId"`
}

// SelectDateRequest запрос выбора даты
type SelectDateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD в часовом поясе календаря
}

// SelectSlotRequest запрос выбора слота
type SelectSlotRequest struct {
	StartAt time.Time `json:"startAt"` // RFC3339
}

// ContactRequest контактные данные клиента
type ContactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Company *string `json:"company,omitempty"`
}

// SubmitRequest запрос подтверждения бронирования
type SubmitRequest struct {
	Contact ContactRequest `json:"contact"`
}

// ToDomainContact конвертирует HTTP контакт в domain модель
func (r *SubmitRequest) ToDomainContact() domain.Contact {
	return domain.Contact{
		Name:    r.Contact.Name,
		Email:   r.Contact.Email,
		Phone:   r.Contact.Phone,
		Company: r.Contact.Company,
	}
}

// Response модели

// SlotResponse слот в ответе визарда
type SlotResponse struct {
	StartAt         time.Time `json:"startAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

// SessionResponse состояние сессии бронирования
type SessionResponse struct {
	SessionID             string         `json:"sessionId"`
	Step                  string         `json:"step"`
	ServiceID             int64          `json:"serviceId"`
	SelectedDate          string         `json:"selectedDate,omitempty"`
	SelectedSlot          *SlotResponse  `json:"selectedSlot,omitempty"`
	SlotNoLongerAvailable bool           `json:"slotNoLongerAvailable,omitempty"`
	AppointmentID         *string        `json:"appointmentId,omitempty"`
	ExpiresAt             time.Time      `json:"expiresAt"`
	Slots                 []SlotResponse `json:"slots,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *bookingFlow.Response) *SessionResponse {
	s := resp.Session

	out := &SessionResponse{
		SessionID:             s.SessionID.String(),
		Step:                  string(s.Step),
		ServiceID:             s.ServiceID,
		SelectedDate:          s.SelectedDate,
		SlotNoLongerAvailable: s.SlotNoLongerAvailable,
		ExpiresAt:             s.ExpiresAt,
	}

	if s.SelectedSlot != nil {
		out.SelectedSlot = &SlotResponse{
			StartAt:         s.SelectedSlot.StartAt,
			DurationMinutes: s.SelectedSlot.DurationMinutes,
		}
	}
	if s.AppointmentID != nil {
		id := s.AppointmentID.String()
		out.AppointmentID = &id
	}
	if len(resp.Slots) > 0 {
		out.Slots = make([]SlotResponse, 0, len(resp.Slots))
		for _, slot := range resp.Slots {
			out.Slots = append(out.Slots, SlotResponse{
				StartAt:         slot.StartAt,
				DurationMinutes: slot.DurationMinutes,
			})
		}
	}

	return out
}
