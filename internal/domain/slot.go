package domain

import "time"

// Slot represents a candidate, not-yet-reserved time window for a service.
// Derived by the slot generator, never persisted.
// Two slots are the same iff ServiceID and StartAt match.
type Slot struct {
	ServiceID       int64
	StartAt         time.Time // момент начала (UTC)
	DurationMinutes int
}

// EndAt returns the instant the slot ends
func (s Slot) EndAt() time.Time {
	return s.StartAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Same returns true if other identifies the same slot
func (s Slot) Same(other Slot) bool {
	return s.ServiceID == other.ServiceID && s.StartAt.Equal(other.StartAt)
}
