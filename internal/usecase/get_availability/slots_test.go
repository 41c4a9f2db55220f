package get_availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

func testCalendar() *domain.CalendarConfig {
	return &domain.CalendarConfig{
		ID:       1,
		TimeZone: "UTC",
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		DayStart:               "09:00",
		DayEnd:                 "17:00",
		SlotGranularityMinutes: 30,
		MinLeadMinutes:         30,
	}
}

func testService() *domain.Service {
	return &domain.Service{
		ID:              10,
		Name:            "Strategy Call",
		DurationMinutes: 60,
		Active:          true,
	}
}

// Понедельник 2025-06-02, далеко в будущем относительно now в тестах
var (
	testDay  = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	endOfDay = time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC)
)

func TestGenerateSlots_GridAlignment(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	slots, err := generateSlots(cal, svc, nil, testDay, endOfDay, testNow)
	require.NoError(t, err)

	// 09:00..16:00 каждые 30 минут: последний старт в 16:00, слот 60 минут
	// заканчивается ровно в 17:00
	require.Len(t, slots, 15)

	first := slots[0]
	assert.Equal(t, time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), first.StartAt)
	assert.Equal(t, 60, first.DurationMinutes)

	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC), last.StartAt)

	// Все слоты выровнены по сетке и идут в хронологическом порядке
	for i, s := range slots {
		offset := s.StartAt.Sub(first.StartAt)
		assert.Equal(t, time.Duration(i)*30*time.Minute, offset)
	}
}

func TestGenerateSlots_SlotMustFitBeforeClose(t *testing.T) {
	cal := testCalendar()
	svc := testService()
	svc.DurationMinutes = 90

	slots, err := generateSlots(cal, svc, nil, testDay, endOfDay, testNow)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	// Слот на 90 минут не может начинаться позже 15:30
	last := slots[len(slots)-1]
	assert.Equal(t, time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC), last.StartAt)
}

func TestGenerateSlots_ServiceLongerThanWindow(t *testing.T) {
	cal := testCalendar()
	svc := testService()
	svc.DurationMinutes = 9 * 60

	slots, err := generateSlots(cal, svc, nil, testDay, endOfDay, testNow)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_SkipsNonWorkingDays(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	// Суббота и воскресенье 2025-06-07..08
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 23, 59, 59, 0, time.UTC)

	slots, err := generateSlots(cal, svc, nil, saturday, sunday, testNow)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_ExcludesOverlapping(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	booked := &domain.Appointment{
		ServiceID:       svc.ID,
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}

	slots, err := generateSlots(cal, svc, []*domain.Appointment{booked}, testDay, endOfDay, testNow)
	require.NoError(t, err)

	for _, s := range slots {
		// Часовой слот в 09:30 пересекает бронь 10:00-11:00, в 10:00 и 10:30 тоже
		assert.False(t, s.StartAt.Equal(time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)))
		assert.False(t, s.StartAt.Equal(booked.StartAt))
		assert.False(t, s.StartAt.Equal(time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)))
	}

	// Граничный случай: слот, начинающийся ровно в момент конца брони, доступен
	found := false
	for _, s := range slots {
		if s.StartAt.Equal(time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)) {
			found = true
		}
	}
	assert.True(t, found, "slot starting at the booked appointment's end must be offered")
}

func TestGenerateSlots_CancelledDoesNotOccupy(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	cancelled := &domain.Appointment{
		ServiceID:       svc.ID,
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          domain.StatusCancelled,
	}

	slots, err := generateSlots(cal, svc, []*domain.Appointment{cancelled}, testDay, endOfDay, testNow)
	require.NoError(t, err)

	found := false
	for _, s := range slots {
		if s.StartAt.Equal(cancelled.StartAt) {
			found = true
		}
	}
	assert.True(t, found, "cancelled appointment must free its slot")
}

func TestGenerateSlots_LeadTimeAppliesOnlyToday(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	// Сейчас понедельник 10:45, lead 30 минут: слоты до 11:15 сегодня недоступны
	now := time.Date(2025, 6, 2, 10, 45, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 6, 3, 23, 59, 59, 0, time.UTC)

	slots, err := generateSlots(cal, svc, nil, testDay, tomorrow, now)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		if s.StartAt.Day() == 2 {
			assert.False(t, s.StartAt.Before(now.Add(30*time.Minute)),
				"today's slot %s must respect lead time", s.StartAt)
		}
	}

	// Первый доступный слот сегодня - 11:30 (на сетке, после 11:15)
	assert.Equal(t, time.Date(2025, 6, 2, 11, 30, 0, 0, time.UTC), slots[0].StartAt)

	// Завтрашний день начинается с открытия, фильтр не действует
	foundTomorrowOpening := false
	for _, s := range slots {
		if s.StartAt.Equal(time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)) {
			foundTomorrowOpening = true
		}
	}
	assert.True(t, foundTomorrowOpening)
}

func TestGenerateSlots_PastDaysSkipped(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	// Запрошенный период целиком в прошлом
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	slots, err := generateSlots(cal, svc, nil, testDay, endOfDay, now)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlots_TimezoneBoundaries(t *testing.T) {
	cal := testCalendar()
	cal.TimeZone = "America/New_York"
	svc := testService()

	// Период задан в UTC, покрывает понедельник по нью-йоркскому времени
	rangeStart := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2025, 6, 3, 4, 0, 0, 0, time.UTC)

	slots, err := generateSlots(cal, svc, nil, rangeStart, rangeEnd, testNow)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 09:00 стеночных часов Нью-Йорка = 13:00 UTC летом
	first := slots[0]
	assert.Equal(t, time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC), first.StartAt)
	assert.Equal(t, 9, first.StartAt.In(loc).Hour())
	assert.Equal(t, time.UTC, first.StartAt.Location())
}

func TestGenerateSlots_RespectsRangeBounds(t *testing.T) {
	cal := testCalendar()
	svc := testService()

	// Период с полудня: утренние слоты не попадают
	rangeStart := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	slots, err := generateSlots(cal, svc, nil, rangeStart, endOfDay, testNow)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	assert.Equal(t, time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC), slots[0].StartAt)
}
