package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRM-SchedulingService/pkg/types"
)

// ErrInvalidCalendarConfig возвращается при нарушении инвариантов конфигурации календаря
// Это ошибка конфигурирования: генератор слотов не должен запускаться с такой конфигурацией
var ErrInvalidCalendarConfig = errors.New("domain: invalid calendar config")

// Theme настройки внешнего вида встраиваемого виджета
// Все поля опциональны, nil означает дефолтное оформление
type Theme struct {
	PrimaryColor *string
	AccentColor  *string
	LogoURL      *string
}

// CalendarConfig represents the business-hours configuration the scheduler
// runs against: time zone, working days, working window and slot grid.
// Validated once at load time, not per request.
type CalendarConfig struct {
	ID                     int64
	TimeZone               string
	WorkingDays            []time.Weekday
	DayStart               types.TimeString
	DayEnd                 types.TimeString
	SlotGranularityMinutes int
	MinLeadMinutes         int
	DefaultServiceID       *int64 // услуга, предвыбранная в виджете (опционально)
	Theme                  Theme

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты конфигурации
func (c *CalendarConfig) Validate() error {
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("%w: unknown time zone %q", ErrInvalidCalendarConfig, c.TimeZone)
	}

	if len(c.WorkingDays) == 0 {
		return fmt.Errorf("%w: working days must not be empty", ErrInvalidCalendarConfig)
	}

	if err := c.DayStart.Validate(); err != nil {
		return fmt.Errorf("%w: dayStart: %v", ErrInvalidCalendarConfig, err)
	}
	if err := c.DayEnd.Validate(); err != nil {
		return fmt.Errorf("%w: dayEnd: %v", ErrInvalidCalendarConfig, err)
	}

	if !c.DayStart.IsBefore(c.DayEnd) {
		return fmt.Errorf("%w: dayStart %s must be before dayEnd %s", ErrInvalidCalendarConfig, c.DayStart, c.DayEnd)
	}

	if c.SlotGranularityMinutes < MinSlotGranularityMinutes || c.SlotGranularityMinutes > MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidCalendarConfig, MinSlotGranularityMinutes, MaxSlotGranularityMinutes)
	}

	window, err := c.WorkingWindowMinutes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCalendarConfig, err)
	}
	if window%c.SlotGranularityMinutes != 0 {
		return fmt.Errorf("%w: granularity %dm does not divide the %dm working window",
			ErrInvalidCalendarConfig, c.SlotGranularityMinutes, window)
	}

	if c.MinLeadMinutes < 0 || c.MinLeadMinutes > MaxLeadMinutes {
		return fmt.Errorf("%w: minLeadMinutes must be between 0 and %d", ErrInvalidCalendarConfig, MaxLeadMinutes)
	}

	return nil
}

// Location возвращает *time.Location конфигурации
// Validate должен быть вызван до этого метода
func (c *CalendarConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

// WorkingWindowMinutes возвращает длину рабочего окна в минутах
func (c *CalendarConfig) WorkingWindowMinutes() (int, error) {
	start, err := c.DayStart.Minutes()
	if err != nil {
		return 0, err
	}
	end, err := c.DayEnd.Minutes()
	if err != nil {
		return 0, err
	}
	return end - start, nil
}

// IsWorkingDay возвращает true, если день недели входит в рабочие дни
func (c *CalendarConfig) IsWorkingDay(d time.Weekday) bool {
	for _, wd := range c.WorkingDays {
		if wd == d {
			return true
		}
	}
	return false
}

// WorkingDaysMask кодирует рабочие дни в битовую маску для хранения в БД
// Бит 0 = воскресенье (нумерация time.Weekday)
func WorkingDaysMask(days []time.Weekday) int16 {
	var mask int16
	for _, d := range days {
		mask |= 1 << uint(d)
	}
	return mask
}

// WorkingDaysFromMask декодирует битовую маску рабочих дней
func WorkingDaysFromMask(mask int16) []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if mask&(1<<uint(d)) != 0 {
			days = append(days, d)
		}
	}
	return days
}
