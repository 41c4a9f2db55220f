package get_availability

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID  int64     // ID услуги
	RangeStart time.Time // Начало периода (абсолютный момент, UTC)
	RangeEnd   time.Time // Конец периода (включительно, UTC)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	ServiceID  int64     // ID услуги
	RangeStart time.Time // Запрошенное начало периода
	RangeEnd   time.Time // Запрошенный конец периода
	Slots      []Slot    // Доступные слоты в хронологическом порядке
}

// Slot модель временного слота
type Slot struct {
	StartAt         time.Time // Момент начала (UTC)
	DurationMinutes int       // Длительность в минутах
}
