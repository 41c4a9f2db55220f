package reserve_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/internal/integrations/crmcore"
	"github.com/m04kA/CRM-SchedulingService/pkg/ptr"
)

// publishTimeout тайм-аут публикации события после коммита
const publishTimeout = 5 * time.Second

// UseCase координатор резервирования: гарантирует, что из всех конкурирующих
// запросов на один и тот же (serviceID, startAt) успешным будет не более одного
type UseCase struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	txManager       TransactionManager
	publisher       EventPublisher // nil, если интеграция с ядром CRM выключена
	reserveTimeout  time.Duration
	phoneRegion     string
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	reserveTimeout time.Duration,
	phoneRegion string,
	logger Logger,
) *UseCase {
	if reserveTimeout <= 0 {
		reserveTimeout = 5 * time.Second
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		txManager:       txManager,
		publisher:       publisher,
		reserveTimeout:  reserveTimeout,
		phoneRegion:     phoneRegion,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет резервирование слота.
// Единственная точка сериализации - транзакция SERIALIZABLE с блокировкой
// бронирований дня (FOR UPDATE) и повторной проверкой пересечений; частичный
// уникальный индекс по (service_id, start_at) страхует от гонки на вставке.
// Конфликт возвращается как типизированный результат ErrSlotConflict, не как сбой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReserveSlot: service=%d, start=%s, source=%s",
		req.ServiceID, req.StartAt.Format(time.RFC3339), req.Source)

	// 1. Валидация входных данных (контакт - по полям)
	if err := validateRequest(req, uc.phoneRegion); err != nil {
		uc.logger.Warn("ReserveSlot: validation failed: %v", err)
		return nil, err
	}

	if req.Source == "" {
		req.Source = domain.SourceWidget
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем и проверяем конфигурацию календаря
	cal, err := uc.calendarRepo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrConfigNotFound) {
			uc.logger.Warn("ReserveSlot: calendar is not configured")
			return nil, ErrCalendarNotConfigured
		}
		uc.logger.Error("ReserveSlot: failed to get calendar config: %v", err)
		return nil, fmt.Errorf("%w: failed to get calendar config: %v", ErrStoreUnavailable, err)
	}

	if err := cal.Validate(); err != nil {
		uc.logger.Error("ReserveSlot: calendar config is invalid: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCalendarConfig, err)
	}

	// 4. Получаем услугу
	svc, err := uc.calendarRepo.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrServiceNotFound) {
			uc.logger.Warn("ReserveSlot: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("ReserveSlot: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrStoreUnavailable, err)
	}

	if !svc.Active {
		uc.logger.Warn("ReserveSlot: service id=%d is not bookable", req.ServiceID)
		return nil, ErrServiceNotBookable
	}

	// 5. Дешёвые проверки до транзакции: слот на сетке и lead time
	startAt := req.StartAt.UTC()
	if err := validateSlotOnGrid(cal, svc, startAt); err != nil {
		uc.logger.Warn("ReserveSlot: slot validation failed: %v", err)
		return nil, err
	}
	if err := validateLeadTime(cal, startAt, now); err != nil {
		uc.logger.Warn("ReserveSlot: lead time validation failed: %v", err)
		return nil, err
	}

	// 6. Резервирование ограничено тайм-аутом;
	// по тайм-ауту вызывающая сторона получает повторяемую ошибку, не тихий успех
	reserveCtx, cancel := context.WithTimeout(ctx, uc.reserveTimeout)
	defer cancel()

	var result *domain.Appointment

	// 7. Атомарная проверка и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(reserveCtx, func(txCtx context.Context) error {
		// 7.1. Читаем бронирования вокруг запрошенного слота с блокировкой FOR UPDATE
		windowStart := startAt.Add(-time.Duration(domain.MaxServiceDurationMinutes) * time.Minute)
		windowEnd := startAt.Add(time.Duration(svc.DurationMinutes) * time.Minute)

		existing, err := uc.appointmentRepo.GetWithFilter(txCtx, domain.AppointmentsFilter{
			ServiceID:  ptr.Ptr(req.ServiceID),
			RangeStart: &windowStart,
			RangeEnd:   &windowEnd,
		})
		if err != nil {
			uc.logger.Error("ReserveSlot: failed to get existing appointments: %v", err)
			return fmt.Errorf("%w: failed to get existing appointments: %v", ErrStoreUnavailable, err)
		}

		// 7.2. Повторная проверка пересечений - источник истины,
		// даже если доступность рендерилась по устаревшим данным
		for _, appt := range existing {
			if appt.IsActive() && appt.Overlaps(startAt, svc.DurationMinutes) {
				return ErrSlotConflict
			}
		}

		// 7.3. Создаем бронирование
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			PublicID:        uuid.New(),
			ServiceID:       req.ServiceID,
			StartAt:         startAt,
			DurationMinutes: svc.DurationMinutes,
			Contact:         req.Contact,
			Source:          req.Source,
			Status:          domain.StatusConfirmed,
		})
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			uc.logger.Error("ReserveSlot: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrStoreUnavailable, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			// Ожидаемый исход гонки - логируем как warn, не error
			uc.logger.Warn("ReserveSlot: slot conflict for service=%d, start=%s",
				req.ServiceID, startAt.Format(time.RFC3339))
			return nil, ErrSlotConflict
		case errors.Is(err, context.DeadlineExceeded):
			uc.logger.Error("ReserveSlot: reservation timed out after %s", uc.reserveTimeout)
			return nil, fmt.Errorf("%w: reservation timed out", ErrStoreUnavailable)
		case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrInternal):
			return nil, err
		default:
			uc.logger.Error("ReserveSlot: transaction failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	uc.logger.Info("ReserveSlot: successfully reserved appointment id=%s for service=%d, start=%s",
		result.PublicID, req.ServiceID, startAt.Format(time.RFC3339))

	// 8. Публикуем AppointmentConfirmed после коммита
	// Контакт в CRM и уведомления создаются подписчиками события, не этим сервисом
	uc.publishConfirmed(result, svc)

	return &Response{
		AppointmentID:   result.PublicID,
		ServiceID:       result.ServiceID,
		ServiceName:     svc.Name,
		StartAt:         result.StartAt,
		DurationMinutes: result.DurationMinutes,
		Contact:         result.Contact,
		Source:          result.Source,
		Status:          string(result.Status),
		CreatedAt:       result.CreatedAt,
	}, nil
}

func (uc *UseCase) publishConfirmed(appt *domain.Appointment, svc *domain.Service) {
	if uc.publisher == nil {
		return
	}

	event := crmcore.AppointmentConfirmedEvent{
		AppointmentID:   appt.PublicID.String(),
		ServiceID:       appt.ServiceID,
		ServiceName:     svc.Name,
		StartAt:         appt.StartAt,
		DurationMinutes: appt.DurationMinutes,
		ContactName:     appt.Contact.Name,
		ContactEmail:    appt.Contact.Email,
		ContactPhone:    appt.Contact.Phone,
		ContactCompany:  appt.Contact.Company,
		Source:          appt.Source,
	}

	// Бронирование уже зафиксировано - публикация не должна задерживать ответ
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := uc.publisher.PublishAppointmentConfirmedWithGracefulDegradation(ctx, event); err != nil {
			uc.logger.Warn("ReserveSlot: event publication degraded: %v", err)
		}
	}()
}
