package reserve_slot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSlotConflict возвращается, когда слот уже занят конкурирующим бронированием
	// Ожидаемый исход гонки, а не сбой: вызывающая сторона предлагает выбрать другое время
	ErrSlotConflict = errors.New("reserve_slot: slot is already taken")

	// ErrStoreUnavailable возвращается, когда хранилище недоступно или резервирование
	// не уложилось в тайм-аут. Ошибка повторяемая; тихим успехом не считается никогда.
	ErrStoreUnavailable = errors.New("reserve_slot: booking store unavailable")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("reserve_slot: service not found")

	// ErrServiceNotBookable возвращается, когда услуга снята с публикации
	ErrServiceNotBookable = errors.New("reserve_slot: service is not bookable")

	// ErrCalendarNotConfigured возвращается, когда конфигурация календаря отсутствует
	ErrCalendarNotConfigured = errors.New("reserve_slot: calendar is not configured")

	// ErrInvalidCalendarConfig возвращается при нарушении инвариантов конфигурации
	ErrInvalidCalendarConfig = errors.New("reserve_slot: invalid calendar config")

	// ErrInvalidSlot возвращается, когда запрошенное время не лежит на сетке слотов
	// (нерабочий день, вне рабочего окна, не кратно гранулярности)
	ErrInvalidSlot = errors.New("reserve_slot: requested time is not a valid slot")

	// ErrTooLateToBook возвращается при нарушении minLeadMinutes
	ErrTooLateToBook = errors.New("reserve_slot: too late to book this slot")

	// ErrValidation возвращается при некорректных контактных данных
	// Детали по полям доступны через errors.As к *ValidationError
	ErrValidation = errors.New("reserve_slot: validation failed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reserve_slot: internal error")
)

// FieldError ошибка валидации конкретного поля
type FieldError struct {
	Field   string
	Message string
}

// ValidationError ошибка валидации с деталями по полям
type ValidationError struct {
	Fields []FieldError
}

// Error реализует error
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

// Unwrap позволяет сопоставлять ошибку через errors.Is(err, ErrValidation)
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
