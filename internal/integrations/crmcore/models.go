package crmcore

import "time"

// AppointmentConfirmedEvent событие успешного подтверждения бронирования
// Ядро CRM по нему создаёт контакт и рассылает уведомления (email/SMS) -
// сам scheduling-сервис уведомления не отправляет
type AppointmentConfirmedEvent struct {
	AppointmentID   string    `json:"appointmentId"`
	ServiceID       int64     `json:"serviceId"`
	ServiceName     string    `json:"serviceName"`
	StartAt         time.Time `json:"startAt"`
	DurationMinutes int       `json:"durationMinutes"`
	ContactName     string    `json:"contactName"`
	ContactEmail    string    `json:"contactEmail"`
	ContactPhone    string    `json:"contactPhone"`
	ContactCompany  *string   `json:"contactCompany,omitempty"`
	Source          string    `json:"source"`
}

// AppointmentCancelledEvent событие отмены бронирования
type AppointmentCancelledEvent struct {
	AppointmentID string    `json:"appointmentId"`
	ServiceID     int64     `json:"serviceId"`
	StartAt       time.Time `json:"startAt"`
	Reason        *string   `json:"reason,omitempty"`
}

// ErrorResponse модель ошибки от ядра CRM
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
