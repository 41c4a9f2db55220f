package domain

import "time"

// Service represents a bookable service from the catalog
// Immutable once published; duration drives how much of the grid a booking occupies
type Service struct {
	ID              int64
	Name            string
	Description     string
	DurationMinutes int
	Active          bool

	CreatedAt time.Time
}

// FitsWindow проверяет, что услуга помещается в рабочее окно календаря
func (s *Service) FitsWindow(windowMinutes int) bool {
	return s.DurationMinutes <= windowMinutes
}
