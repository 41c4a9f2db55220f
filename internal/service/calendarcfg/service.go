package calendarcfg

import (
	"context"
	"errors"
	"fmt"

	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/internal/service/calendarcfg/models"
)

// Service сервис управления конфигурацией календаря
type Service struct {
	calendarRepo CalendarRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации календаря
func NewService(calendarRepo CalendarRepository, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

// Get получает текущую конфигурацию календаря
func (s *Service) Get(ctx context.Context) (*models.ConfigResponse, error) {
	cfg, err := s.calendarRepo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrConfigNotFound) {
			s.logger.Warn("Get: calendar config not found")
			return nil, ErrConfigNotFound
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// Update обновляет конфигурацию календаря.
// Противоречивая конфигурация отклоняется целиком, частичных обновлений нет
func (s *Service) Update(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Update: updating calendar config, tz=%s, granularity=%d",
		req.TimeZone, req.SlotGranularityMinutes)

	cfg, err := req.ToDomainConfig()
	if err != nil {
		s.logger.Warn("Update: failed to parse config: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("Update: config validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Услуга по умолчанию обязана существовать и быть активной
	if cfg.DefaultServiceID != nil {
		svc, err := s.calendarRepo.GetServiceByID(ctx, *cfg.DefaultServiceID)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrServiceNotFound) {
				s.logger.Warn("Update: default service id=%d not found", *cfg.DefaultServiceID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Update: failed to get default service id=%d: %v", *cfg.DefaultServiceID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		if !svc.Active {
			s.logger.Warn("Update: default service id=%d is inactive", *cfg.DefaultServiceID)
			return nil, fmt.Errorf("%w: default service is inactive", ErrInvalidInput)
		}
	}

	// PUT поверх ещё не настроенного календаря создает строку конфигурации
	existing, err := s.calendarRepo.GetConfig(ctx)
	switch {
	case err == nil:
		cfg.ID = existing.ID
	case errors.Is(err, calendarRepo.ErrConfigNotFound):
		created, cerr := s.calendarRepo.CreateConfig(ctx, cfg)
		if cerr != nil {
			s.logger.Error("Update: failed to create config: %v", cerr)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, cerr)
		}
		s.logger.Info("Update: calendar config created")
		return models.FromDomainConfig(created), nil
	default:
		s.logger.Error("Update: failed to get existing config: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	updated, err := s.calendarRepo.UpdateConfig(ctx, cfg)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated calendar config")
	return models.FromDomainConfig(updated), nil
}
