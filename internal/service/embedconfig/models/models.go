package models

// PayloadVersion версия схемы полезной нагрузки виджета
const PayloadVersion = 1

// ServiceEntry услуга в каталоге виджета
type ServiceEntry struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Default         bool   `json:"default,omitempty"`
}

// BusinessHours рабочие часы календаря для отображения в виджете
type BusinessHours struct {
	TimeZone               string `json:"timeZone"`
	WorkingDays            []int  `json:"workingDays"` // 0 = воскресенье
	DayStart               string `json:"dayStart"`    // "HH:MM"
	DayEnd                 string `json:"dayEnd"`      // "HH:MM"
	SlotGranularityMinutes int    `json:"slotGranularityMinutes"`
	MinLeadMinutes         int    `json:"minLeadMinutes"`
}

// Theming настройки оформления виджета
type Theming struct {
	PrimaryColor *string `json:"primaryColor,omitempty"`
	AccentColor  *string `json:"accentColor,omitempty"`
	LogoURL      *string `json:"logoUrl,omitempty"`
}

// EmbedConfigResponse полезная нагрузка для инициализации виджета
type EmbedConfigResponse struct {
	Version        int            `json:"version"`
	APIBaseURL     string         `json:"apiBaseUrl"`
	ServiceCatalog []ServiceEntry `json:"serviceCatalog"`
	BusinessHours  BusinessHours  `json:"businessHours"`
	Theming        *Theming       `json:"theming,omitempty"`
}
