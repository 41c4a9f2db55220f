package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Contact контактные данные посетителя, оставившего бронь
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Company *string
}

// Appointment represents a committed reservation of a slot.
// Appointments are never deleted, only status-transitioned, to preserve
// booking history for the CRM.
type Appointment struct {
	ID              int64
	PublicID        uuid.UUID
	ServiceID       int64
	StartAt         time.Time // абсолютный момент начала (UTC)
	DurationMinutes int
	Contact         Contact
	Source          string
	Status          AppointmentStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// EndAt returns the instant the appointment ends
func (a *Appointment) EndAt() time.Time {
	return a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive returns true if the appointment still occupies its slot
// Pending считается активным, чтобы не предлагать слот дважды во время гонки
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Overlaps проверяет пересечение с интервалом [start, start+durationMinutes)
// Граничные случаи (конец одного == начало другого) пересечением не считаются
func (a *Appointment) Overlaps(start time.Time, durationMinutes int) bool {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return a.StartAt.Before(end) && a.EndAt().After(start)
}

// AppointmentsFilter фильтр для выборки бронирований
type AppointmentsFilter struct {
	ServiceID        *int64             // Фильтр по услуге (опционально)
	RangeStart       *time.Time         // Начало периода (опционально)
	RangeEnd         *time.Time         // Конец периода (опционально)
	Status           *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool               // Включать ли отменённые бронирования
}
