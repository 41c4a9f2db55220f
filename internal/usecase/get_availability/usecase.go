package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/pkg/ptr"
)

// UseCase use case для получения доступных слотов услуги
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	maxRangeDays    int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	if maxRangeDays <= 0 || maxRangeDays > domain.MaxAvailabilityRangeDays {
		maxRangeDays = domain.MaxAvailabilityRangeDays
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		maxRangeDays:    maxRangeDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%d, range=%s..%s",
		req.ServiceID, req.RangeStart.Format(time.RFC3339), req.RangeEnd.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем конфигурацию календаря
	cal, err := uc.calendarRepo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrConfigNotFound) {
			uc.logger.Warn("GetAvailability: calendar is not configured")
			return nil, ErrCalendarNotConfigured
		}
		uc.logger.Error("GetAvailability: failed to get calendar config: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar config: %v", ErrInternal, err)
	}

	// 4. Сломанная конфигурация не должна дойти до генератора
	if err := cal.Validate(); err != nil {
		uc.logger.Error("GetAvailability: calendar config is invalid: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendarConfig, err)
	}

	// 5. Получаем услугу
	svc, err := uc.calendarRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !svc.Active {
		uc.logger.Warn("GetAvailability: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotBookable
	}

	// 6. Получаем активные бронирования услуги за период
	// Начало расширяем влево на максимальную длительность услуги:
	// бронирование, начавшееся до rangeStart, может пересекать первый слот
	filterStart := req.RangeStart.Add(-time.Duration(domain.MaxServiceDurationMinutes) * time.Minute)
	filterEnd := req.RangeEnd.Add(time.Minute)

	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		ServiceID:  ptr.Ptr(req.ServiceID),
		RangeStart: &filterStart,
		RangeEnd:   &filterEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты
	slots, err := generateSlots(cal, svc, appointments, req.RangeStart, req.RangeEnd, now)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailability: generated %d slots for service=%d", len(slots), req.ServiceID)

	// 8. Конвертируем в response
	respSlots := make([]Slot, len(slots))
	for i, s := range slots {
		respSlots[i] = Slot{
			StartAt:         s.StartAt,
			DurationMinutes: s.DurationMinutes,
		}
	}

	return &Response{
		ServiceID:  req.ServiceID,
		RangeStart: req.RangeStart,
		RangeEnd:   req.RangeEnd,
		Slots:      respSlots,
	}, nil
}
