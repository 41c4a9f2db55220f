package embedconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	calendarRepo "github.com/m04kA/CRM-SchedulingService/internal/infra/storage/calendar"
	"github.com/m04kA/CRM-SchedulingService/internal/service/embedconfig/models"
)

// Service собирает конфигурацию для инициализации виджета бронирования.
// Полуготовая конфигурация наружу не выдается: либо полный валидный
// payload, либо типизированная ошибка с причиной для администратора
type Service struct {
	calendarRepo CalendarRepository
	apiBaseURL   string
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации виджета
func NewService(calendarRepo CalendarRepository, apiBaseURL string, logger Logger) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		apiBaseURL:   apiBaseURL,
		logger:       logger,
	}
}

// Emit собирает полезную нагрузку виджета
func (s *Service) Emit(ctx context.Context) (*models.EmbedConfigResponse, error) {
	cal, err := s.calendarRepo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrConfigNotFound) {
			s.logger.Warn("Emit: calendar is not configured")
			return nil, &ConfigurationError{Reason: "calendar is not configured"}
		}
		s.logger.Error("Emit: failed to get calendar config: %v", err)
		return nil, fmt.Errorf("%w: Emit - repository error: %v", ErrInternal, err)
	}

	if err := cal.Validate(); err != nil {
		s.logger.Error("Emit: calendar config is invalid: %v", err)
		return nil, &ConfigurationError{Reason: fmt.Sprintf("calendar config is invalid: %v", err)}
	}

	services, err := s.calendarRepo.ListServices(ctx, true)
	if err != nil {
		s.logger.Error("Emit: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: Emit - repository error: %v", ErrInternal, err)
	}
	if len(services) == 0 {
		s.logger.Warn("Emit: no active services in catalog")
		return nil, &ConfigurationError{Reason: "no active services in catalog"}
	}

	catalog := make([]models.ServiceEntry, 0, len(services))
	defaultFound := false
	for _, svc := range services {
		entry := models.ServiceEntry{
			ID:              svc.ID,
			Name:            svc.Name,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
		}
		if cal.DefaultServiceID != nil && svc.ID == *cal.DefaultServiceID {
			entry.Default = true
			defaultFound = true
		}
		catalog = append(catalog, entry)
	}

	// Висячая ссылка на услугу по умолчанию делает конфигурацию противоречивой
	if cal.DefaultServiceID != nil && !defaultFound {
		s.logger.Warn("Emit: default service id=%d is missing or inactive", *cal.DefaultServiceID)
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("default service id=%d is missing or inactive", *cal.DefaultServiceID),
		}
	}

	resp := &models.EmbedConfigResponse{
		Version:        models.PayloadVersion,
		APIBaseURL:     s.apiBaseURL,
		ServiceCatalog: catalog,
		BusinessHours: models.BusinessHours{
			TimeZone:               cal.TimeZone,
			WorkingDays:            weekdaysToInts(cal.WorkingDays),
			DayStart:               cal.DayStart.String(),
			DayEnd:                 cal.DayEnd.String(),
			SlotGranularityMinutes: cal.SlotGranularityMinutes,
			MinLeadMinutes:         cal.MinLeadMinutes,
		},
		Theming: theming(cal.Theme),
	}

	s.logger.Info("Emit: emitted embed config with %d services", len(catalog))
	return resp, nil
}

func weekdaysToInts(days []time.Weekday) []int {
	result := make([]int, 0, len(days))
	for _, d := range days {
		result = append(result, int(d))
	}
	return result
}

func theming(t domain.Theme) *models.Theming {
	if t.PrimaryColor == nil && t.AccentColor == nil && t.LogoURL == nil {
		return nil
	}
	return &models.Theming{
		PrimaryColor: t.PrimaryColor,
		AccentColor:  t.AccentColor,
		LogoURL:      t.LogoURL,
	}
}
