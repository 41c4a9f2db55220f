package create_appointment

import (
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	reserveSlot "github.com/m04kA/CRM-SchedulingService/internal/usecase/reserve_slot"
)

// ContactRequest контактные данные клиента
type ContactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Company *string `json:"company,omitempty"`
}

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID int64          `json:"serviceId"`
	StartAt   time.Time      `json:"startAt"` // RFC3339
	Contact   ContactRequest `json:"contact"`
	Source    string         `json:"source,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest() *reserveSlot.Request {
	return &reserveSlot.Request{
		ServiceID: r.ServiceID,
		StartAt:   r.StartAt,
		Contact: domain.Contact{
			Name:    r.Contact.Name,
			Email:   r.Contact.Email,
			Phone:   r.Contact.Phone,
			Company: r.Contact.Company,
		},
		Source: r.Source,
	}
}

// ContactResponse контактные данные в ответе
type ContactResponse struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Company *string `json:"company,omitempty"`
}

// AppointmentResponse HTTP ответ с созданным бронированием
type AppointmentResponse struct {
	ID              string          `json:"id"` // Публичный UUID
	ServiceID       int64           `json:"serviceId"`
	ServiceName     string          `json:"serviceName"`
	StartAt         time.Time       `json:"startAt"`
	DurationMinutes int             `json:"durationMinutes"`
	Contact         ContactResponse `json:"contact"`
	Source          string          `json:"source"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *reserveSlot.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.AppointmentID.String(),
		ServiceID:       resp.ServiceID,
		ServiceName:     resp.ServiceName,
		StartAt:         resp.StartAt,
		DurationMinutes: resp.DurationMinutes,
		Contact: ContactResponse{
			Name:    resp.Contact.Name,
			Email:   resp.Contact.Email,
			Phone:   resp.Contact.Phone,
			Company: resp.Contact.Company,
		},
		Source:    resp.Source,
		Status:    resp.Status,
		CreatedAt: resp.CreatedAt,
	}
}
