package reserve_slot

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// validateRequest валидирует запрос на резервирование
// Ошибки контактных данных собираются по полям в *ValidationError
func validateRequest(req *Request, phoneRegion string) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrValidation)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrValidation)
	}

	fields := validateContact(req.Contact, phoneRegion)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	return nil
}

// validateContact проверяет контактные данные посетителя
func validateContact(c domain.Contact, phoneRegion string) []FieldError {
	var fields []FieldError

	name := strings.TrimSpace(c.Name)
	if name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > domain.MaxContactFieldLen {
		fields = append(fields, FieldError{Field: "name", Message: "name is too long"})
	}

	email := strings.TrimSpace(c.Email)
	if email == "" {
		fields = append(fields, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields = append(fields, FieldError{Field: "email", Message: "invalid email format"})
	}

	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		fields = append(fields, FieldError{Field: "phone", Message: "phone is required"})
	} else {
		parsed, err := phonenumbers.Parse(phone, phoneRegion)
		if err != nil || !phonenumbers.IsValidNumber(parsed) {
			fields = append(fields, FieldError{Field: "phone", Message: "invalid phone number"})
		}
	}

	if c.Company != nil && len(*c.Company) > domain.MaxContactFieldLen {
		fields = append(fields, FieldError{Field: "company", Message: "company is too long"})
	}

	return fields
}

// validateSlotOnGrid проверяет, что запрошенное время лежит на сетке слотов:
// рабочий день, начало кратно гранулярности от dayStart, слот целиком в рабочем окне
func validateSlotOnGrid(cal *domain.CalendarConfig, svc *domain.Service, startAt time.Time) error {
	loc, err := cal.Location()
	if err != nil {
		return fmt.Errorf("%w: failed to load location: %v", ErrInternal, err)
	}

	local := startAt.In(loc)

	if !cal.IsWorkingDay(local.Weekday()) {
		return fmt.Errorf("%w: %s is not a working day", ErrInvalidSlot, local.Weekday())
	}

	dayStartMin, err := cal.DayStart.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	dayEndMin, err := cal.DayEnd.Minutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	startMin := local.Hour()*60 + local.Minute()
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return fmt.Errorf("%w: slot must start on a whole minute", ErrInvalidSlot)
	}

	if startMin < dayStartMin {
		return fmt.Errorf("%w: slot starts before working hours", ErrInvalidSlot)
	}

	// Слот должен полностью помещаться в рабочее окно
	if startMin+svc.DurationMinutes > dayEndMin {
		return fmt.Errorf("%w: slot would run past closing time", ErrInvalidSlot)
	}

	if (startMin-dayStartMin)%cal.SlotGranularityMinutes != 0 {
		return fmt.Errorf("%w: slot is not aligned to the %d-minute grid", ErrInvalidSlot, cal.SlotGranularityMinutes)
	}

	return nil
}

// validateLeadTime проверяет, что бронирование не нарушает minLeadMinutes
// и что слот не в прошлом
func validateLeadTime(cal *domain.CalendarConfig, startAt, now time.Time) error {
	minAllowed := now.Add(time.Duration(cal.MinLeadMinutes) * time.Minute)
	if startAt.Before(minAllowed) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, cal.MinLeadMinutes)
	}
	return nil
}
