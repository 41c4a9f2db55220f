package get_availability

import (
	"time"

	getAvailability "github.com/m04kA/CRM-SchedulingService/internal/usecase/get_availability"
)

// SlotResponse HTTP модель слота
type SlotResponse struct {
	StartAt         time.Time `json:"startAt"` // RFC3339, UTC
	DurationMinutes int       `json:"durationMinutes"`
}

// AvailabilityResponse HTTP ответ со списком доступных слотов
type AvailabilityResponse struct {
	ServiceID  int64          `json:"serviceId"`
	RangeStart time.Time      `json:"rangeStart"`
	RangeEnd   time.Time      `json:"rangeEnd"`
	Slots      []SlotResponse `json:"slots"`
}

// ToUseCaseRequest формирует запрос use case из query параметров
func ToUseCaseRequest(serviceID int64, rangeStart, rangeEnd time.Time) *getAvailability.Request {
	return &getAvailability.Request{
		ServiceID:  serviceID,
		RangeStart: rangeStart.UTC(),
		RangeEnd:   rangeEnd.UTC(),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartAt:         s.StartAt,
			DurationMinutes: s.DurationMinutes,
		})
	}

	return &AvailabilityResponse{
		ServiceID:  resp.ServiceID,
		RangeStart: resp.RangeStart,
		RangeEnd:   resp.RangeEnd,
		Slots:      slots,
	}
}
