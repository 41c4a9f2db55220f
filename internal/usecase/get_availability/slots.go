package get_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// generateSlots генерирует доступные слоты услуги на период [rangeStart, rangeEnd].
// Чистая функция: результат полностью определяется аргументами, текущее время
// передается явно и никогда не читается изнутри.
//
// Алгоритм по дням:
//  1. Нерабочие дни недели пропускаются целиком.
//  2. Сетка начинается с dayStart и шагает на slotGranularityMinutes;
//     слот должен полностью помещаться в рабочее окно (конец не позже dayEnd).
//  3. На сегодняшний день действует фильтр lead time: слоты раньше
//     now+minLeadMinutes исключаются. Будущие дни фильтр не затрагивает.
//  4. Слоты, пересекающиеся с активными бронированиями услуги, исключаются.
//
// Вся арифметика стеночных часов выполняется в часовом поясе календаря;
// на границе слоты выражены абсолютными моментами UTC.
func generateSlots(
	cal *domain.CalendarConfig,
	svc *domain.Service,
	appointments []*domain.Appointment,
	rangeStart time.Time,
	rangeEnd time.Time,
	now time.Time,
) ([]domain.Slot, error) {
	loc, err := cal.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %v", cal.TimeZone, err)
	}

	dayStartMin, err := cal.DayStart.Minutes()
	if err != nil {
		return nil, err
	}
	dayEndMin, err := cal.DayEnd.Minutes()
	if err != nil {
		return nil, err
	}

	// Последнее допустимое начало слота в минутах от полуночи:
	// слот, заканчивающийся позже закрытия, не предлагается
	lastStartMin := dayEndMin - svc.DurationMinutes
	if lastStartMin < dayStartMin {
		// Услуга не помещается в рабочее окно ни в один день
		return []domain.Slot{}, nil
	}

	localNow := now.In(loc)
	today := startOfDay(localNow)
	minAllowedStart := now.Add(time.Duration(cal.MinLeadMinutes) * time.Minute)

	firstDay := startOfDayIn(rangeStart, loc)
	lastDay := startOfDayIn(rangeEnd, loc)

	slots := make([]domain.Slot, 0)

	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		// Прошедшие дни не генерируются
		if day.Before(today) {
			continue
		}

		if !cal.IsWorkingDay(day.Weekday()) {
			continue
		}

		isToday := day.Equal(today)

		for m := dayStartMin; m <= lastStartMin; m += cal.SlotGranularityMinutes {
			// time.Date с часовым поясом календаря дает корректную семантику
			// стеночных часов и при переходе на летнее/зимнее время
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, loc)
			startUTC := slotStart.UTC()

			// Слот должен попадать в запрошенный период
			if startUTC.Before(rangeStart) || startUTC.After(rangeEnd) {
				continue
			}

			// Фильтр lead time действует только на сегодняшний день
			if isToday && startUTC.Before(minAllowedStart) {
				continue
			}

			if overlapsExisting(startUTC, svc.DurationMinutes, appointments) {
				continue
			}

			slots = append(slots, domain.Slot{
				ServiceID:       svc.ID,
				StartAt:         startUTC,
				DurationMinutes: svc.DurationMinutes,
			})
		}
	}

	return slots, nil
}

// overlapsExisting проверяет пересечение кандидата с активными бронированиями
// Отменённые бронирования слот не занимают; граничные случаи
// (конец одного == начало другого) пересечением не считаются
func overlapsExisting(start time.Time, durationMinutes int, appointments []*domain.Appointment) bool {
	for _, appt := range appointments {
		if !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start, durationMinutes) {
			return true
		}
	}
	return false
}

// startOfDay обнуляет время, оставляя дату в том же часовом поясе
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfDayIn переводит момент в указанный часовой пояс и обнуляет время
func startOfDayIn(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t.In(loc))
}
