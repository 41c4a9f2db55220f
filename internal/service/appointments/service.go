package appointments

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
	"github.com/m04kA/CRM-SchedulingService/internal/service/appointments/models"
)

// publishTimeout тайм-аут публикации события после фиксации отмены
const publishTimeout = 5 * time.Second

// Service сервис для работы с бронированиями по их публичному идентификатору
type Service struct {
	appointmentRepo AppointmentRepository
	calendarRepo    CalendarRepository
	publisher       EventPublisher // nil, если интеграция с ядром CRM выключена
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	appointmentRepo AppointmentRepository,
	calendarRepo CalendarRepository,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		calendarRepo:    calendarRepo,
		publisher:       publisher,
		logger:          logger,
	}
}

// GetByPublicID получает бронирование по публичному UUID
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByPublicID: fetching appointment id=%s", publicID)

	appt, err := s.appointmentRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByPublicID: appointment id=%s not found", publicID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByPublicID: repository error for appointment id=%s: %v", publicID, err)
		return nil, fmt.Errorf("%w: GetByPublicID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt, s.serviceName(ctx, appt.ServiceID)), nil
}

// Cancel отменяет бронирование по публичному UUID.
// Повторная отмена уже отменённого бронирования - успех, не ошибка:
// клиент мог получить тайм-аут на первой попытке и повторить запрос
func (s *Service) Cancel(ctx context.Context, publicID uuid.UUID, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%s", publicID)
	req.Normalize()

	appt, err := s.appointmentRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%s not found", publicID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", publicID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if appt.IsCancelled() {
		s.logger.Info("Cancel: appointment id=%s already cancelled, treating as success", publicID)
		return models.FromDomainAppointment(appt, s.serviceName(ctx, appt.ServiceID)), nil
	}

	if err := s.appointmentRepo.Cancel(ctx, publicID, req.Reason); err != nil {
		// Гонка с параллельной отменой: перечитываем и отдаем успех
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			current, gerr := s.appointmentRepo.GetByPublicID(ctx, publicID)
			if gerr == nil && current.IsCancelled() {
				s.logger.Info("Cancel: appointment id=%s cancelled concurrently, treating as success", publicID)
				return models.FromDomainAppointment(current, s.serviceName(ctx, current.ServiceID)), nil
			}
			s.logger.Warn("Cancel: appointment id=%s not found during cancellation", publicID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%s: %v", publicID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	cancelled, err := s.appointmentRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		s.logger.Error("Cancel: failed to re-read appointment id=%s: %v", publicID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%s", publicID)
	s.publishCancelled(cancelled)

	return models.FromDomainAppointment(cancelled, s.serviceName(ctx, cancelled.ServiceID)), nil
}

func (s *Service) publishCancelled(appt *domain.Appointment) {
	if s.publisher == nil {
		return
	}

	event := crmcore.AppointmentCancelledEvent{
		AppointmentID: appt.PublicID.String(),
		ServiceID:     appt.ServiceID,
		StartAt:       appt.StartAt,
		Reason:        appt.CancellationReason,
	}

	// Отмена уже зафиксирована - публикация не должна задерживать ответ
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := s.publisher.PublishAppointmentCancelledWithGracefulDegradation(ctx, event); err != nil {
			s.logger.Warn("Cancel: event publication degraded: %v", err)
		}
	}()
}

// serviceName возвращает название услуги для денормализации в ответе.
// Ошибка каталога не блокирует выдачу бронирования
func (s *Service) serviceName(ctx context.Context, serviceID int64) string {
	svc, err := s.calendarRepo.GetServiceByID(ctx, serviceID)
	if err != nil {
		if !errors.Is(err, calendarRepo.ErrServiceNotFound) {
			s.logger.Warn("serviceName: failed to get service id=%d: %v", serviceID, err)
		}
		return ""
	}
	return svc.Name
}
