package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// Step шаг пошагового сценария бронирования
type Step string

const (
	StepCalendar     Step = "calendar"
	StepTime         Step = "time"
	StepForm         Step = "form"
	StepConfirmation Step = "confirmation"
)

// Session состояние одного прохода визарда бронирования.
// Живет только в памяти процесса: бизнес-ценности до подтверждения нет,
// потеря сессии при рестарте означает лишь повторный проход виджета
type Session struct {
	ID        uuid.UUID
	Step      Step
	ServiceID int64

	// SelectedDate дата в часовом поясе календаря, формат 2006-01-02
	SelectedDate string
	// SelectedSlot выбранный слот, заполняется на шаге time
	SelectedSlot *domain.Slot
	// Contact накапливается на шаге form
	Contact domain.Contact

	// SlotNoLongerAvailable взводится, когда слот увели между выбором и подтверждением
	SlotNoLongerAvailable bool

	// AppointmentID заполняется на шаге confirmation
	AppointmentID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// NewSession создает сессию на шаге calendar
func NewSession(serviceID int64, ttl time.Duration, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Step:      StepCalendar,
		ServiceID: serviceID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired проверяет, истекла ли сессия
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SelectDate переводит сессию calendar -> time.
// Допускается и с шага time: пользователь меняет дату, не возвращаясь назад
func (s *Session) SelectDate(date string) error {
	if s.Step != StepCalendar && s.Step != StepTime {
		return fmt.Errorf("%w: select date from step %q", ErrInvalidSessionState, s.Step)
	}
	s.SelectedDate = date
	s.SelectedSlot = nil
	s.SlotNoLongerAvailable = false
	s.Step = StepTime
	return nil
}

// SelectSlot переводит сессию time -> form
func (s *Session) SelectSlot(slot domain.Slot) error {
	if s.Step != StepTime {
		return fmt.Errorf("%w: select slot from step %q", ErrInvalidSessionState, s.Step)
	}
	s.SelectedSlot = &slot
	s.SlotNoLongerAvailable = false
	s.Step = StepForm
	return nil
}

// Confirm переводит сессию form -> confirmation после успешного резервирования
func (s *Session) Confirm(appointmentID uuid.UUID) error {
	if s.Step != StepForm {
		return fmt.Errorf("%w: confirm from step %q", ErrInvalidSessionState, s.Step)
	}
	s.AppointmentID = &appointmentID
	s.Step = StepConfirmation
	return nil
}

// ReturnToSlotSelection откатывает сессию form -> time после конфликта слота.
// Введенный контакт сохраняется, чтобы пользователь не заполнял форму заново
func (s *Session) ReturnToSlotSelection() error {
	if s.Step != StepForm {
		return fmt.Errorf("%w: return to slot selection from step %q", ErrInvalidSessionState, s.Step)
	}
	s.SelectedSlot = nil
	s.SlotNoLongerAvailable = true
	s.Step = StepTime
	return nil
}

// Back возвращает сессию на предыдущий шаг.
// С шага confirmation возврата нет - бронирование уже зафиксировано
func (s *Session) Back() error {
	switch s.Step {
	case StepTime:
		s.SelectedDate = ""
		s.SelectedSlot = nil
		s.SlotNoLongerAvailable = false
		s.Step = StepCalendar
		return nil
	case StepForm:
		s.SelectedSlot = nil
		s.Step = StepTime
		return nil
	default:
		return fmt.Errorf("%w: back from step %q", ErrInvalidSessionState, s.Step)
	}
}
