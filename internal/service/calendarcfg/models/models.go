package models

import (
	"time"

	"github.com/m04kA/CRM-SchedulingService/internal/domain"
	"github.com/m04kA/CRM-SchedulingService/pkg/types"
)

// Request модели

// ThemeRequest настройки оформления виджета
type ThemeRequest struct {
	PrimaryColor *string `json:"primaryColor,omitempty"`
	AccentColor  *string `json:"accentColor,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
}

// UpdateConfigRequest запрос на обновление конфигурации календаря
type UpdateConfigRequest struct {
	TimeZone               string        `json:"timeZone"`
	WorkingDays            []int         `json:"workingDays"` // 0 = воскресенье
	DayStart               string        `json:"dayStart"`    // "HH:MM"
	DayEnd                 string        `json:"dayEnd"`      // "HH:MM"
	SlotGranularityMinutes int           `json:"slotGranularityMinutes"`
	MinLeadMinutes         int           `json:"minLeadMinutes"`
	DefaultServiceID       *int64        `json:"defaultServiceId,omitempty"`
	Theme                  *ThemeRequest `json:"theme,omitempty"`
}

// ToDomainConfig конвертирует request в domain модель
func (r *UpdateConfigRequest) ToDomainConfig() (*domain.CalendarConfig, error) {
	dayStart, err := types.NewTimeStringFromString(r.DayStart)
	if err != nil {
		return nil, err
	}
	dayEnd, err := types.NewTimeStringFromString(r.DayEnd)
	if err != nil {
		return nil, err
	}

	days := make([]time.Weekday, 0, len(r.WorkingDays))
	for _, d := range r.WorkingDays {
		days = append(days, time.Weekday(d))
	}

	cfg := &domain.CalendarConfig{
		TimeZone:               r.TimeZone,
		WorkingDays:            days,
		DayStart:               dayStart,
		DayEnd:                 dayEnd,
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		MinLeadMinutes:         r.MinLeadMinutes,
		DefaultServiceID:       r.DefaultServiceID,
	}
	if r.Theme != nil {
		cfg.Theme = domain.Theme{
			PrimaryColor: r.Theme.PrimaryColor,
			AccentColor:  r.Theme.AccentColor,
			LogoURL:      r.Theme.LogoURL,
		}
	}
	return cfg, nil
}

// Response модели

// ThemeResponse настройки оформления виджета
type ThemeResponse struct {
	PrimaryColor *string `json:"primaryColor,omitempty"`
	AccentColor  *string `json:"accentColor,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
}

// ConfigResponse ответ с конфигурацией календаря
type ConfigResponse struct {
	TimeZone               string         `json:"timeZone"`
	WorkingDays            []int          `json:"workingDays"`
	DayStart               string         `json:"dayStart"`
	DayEnd                 string         `json:"dayEnd"`
	SlotGranularityMinutes int            `json:"slotGranularityMinutes"`
	MinLeadMinutes         int            `json:"minLeadMinutes"`
	DefaultServiceID       *int64         `json:"defaultServiceId,omitempty"`
	Theme                  *ThemeResponse `json:"theme,omitempty"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(cfg *domain.CalendarConfig) *ConfigResponse {
	if cfg == nil {
		return nil
	}

	days := make([]int, 0, len(cfg.WorkingDays))
	for _, d := range cfg.WorkingDays {
		days = append(days, int(d))
	}

	resp := &ConfigResponse{
		TimeZone:               cfg.TimeZone,
		WorkingDays:            days,
		DayStart:               cfg.DayStart.String(),
		DayEnd:                 cfg.DayEnd.String(),
		SlotGranularityMinutes: cfg.SlotGranularityMinutes,
		MinLeadMinutes:         cfg.MinLeadMinutes,
		DefaultServiceID:       cfg.DefaultServiceID,
		UpdatedAt:              cfg.UpdatedAt,
	}

	if cfg.Theme.PrimaryColor != nil || cfg.Theme.AccentColor != nil || cfg.Theme.LogoURL != nil {
		resp.Theme = &ThemeResponse{
			PrimaryColor: cfg.Theme.PrimaryColor,
			AccentColor:  cfg.Theme.AccentColor,
			LogoURL:      cfg.Theme.LogoURL,
		}
	}

	return resp
}
