package reserve_slot

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
)

// Request модель запроса на резервирование слота
type Request struct {
	ServiceID int64          // ID услуги
	StartAt   time.Time      // Момент начала слота (UTC)
	Contact   domain.Contact // Контактные данные посетителя
	Source    string         // Источник бронирования (widget/assistant/manual)
}

// Response модель ответа с созданным бронированием
type Response struct {
	AppointmentID   uuid.UUID // Публичный ID бронирования
	ServiceID       int64     // ID услуги
	ServiceName     string    // Название услуги
	StartAt         time.Time // Момент начала (UTC)
	DurationMinutes int       // Длительность в минутах
	Contact         domain.Contact
	Source          string
	Status          string    // Статус бронирования
	CreatedAt       time.Time // Время создания
}
