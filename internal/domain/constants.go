package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultMinLeadMinutes         = 30
	DefaultTimeZone               = "UTC"
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240  // 4 часа
	MaxLeadMinutes            = 10080 // неделя
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 часов
	MaxAvailabilityRangeDays  = 92  // квартал
	MaxCancellationReasonLen  = 500
	MaxContactFieldLen        = 200
)

// Источники бронирований
const (
	SourceWidget    = "widget"    // встраиваемый виджет
	SourceAssistant = "assistant" // smart-scheduling ассистент CRM
	SourceManual    = "manual"    // создано менеджером вручную
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы бронирований, занимающих слот
// Используются при фильтрации для генерации слотов и проверки конфликтов
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
