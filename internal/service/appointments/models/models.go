package models

import (
	"strings"
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// Request модели

// CancelAppointmentRequest запрос на отмену бронирования
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// Normalize обрезает пробелы и превращает пустую причину в nil
func (r *CancelAppointmentRequest) Normalize() {
	if r.Reason == nil {
		return
	}
	trimmed := strings.TrimSpace(*r.Reason)
	if trimmed == "" {
		r.Reason = nil
		return
	}
	r.Reason = &trimmed
}

// Response модели

// ContactResponse контактные данные в ответе
type ContactResponse struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Company *string `json:"company,omitempty"`
}

// AppointmentResponse ответ с данными бронирования
type AppointmentResponse struct {
	ID              string          `json:"id"` // Публичный UUID
	ServiceID       int64           `json:"serviceId"`
	ServiceName     string          `json:"serviceName,omitempty"`
	StartAt         time.Time       `json:"startAt"` // UTC
	DurationMinutes int             `json:"durationMinutes"`
	Contact         ContactResponse `json:"contact"`
	Source          string          `json:"source"`
	Status          string          `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment, serviceName string) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:              a.PublicID.String(),
		ServiceID:       a.ServiceID,
		ServiceName:     serviceName,
		StartAt:         a.StartAt,
		DurationMinutes: a.DurationMinutes,
		Contact: ContactResponse{
			Name:    a.Contact.Name,
			Email:   a.Contact.Email,
			Phone:   a.Contact.Phone,
			Company: a.Contact.Company,
		},
		Source:             a.Source,
		Status:             string(a.Status),
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}
