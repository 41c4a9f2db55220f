package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_Overlaps(t *testing.T) {
	appt := &Appointment{
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}

	tests := []struct {
		name     string
		start    time.Time
		duration int
		want     bool
	}{
		{
			name:     "same interval",
			start:    time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
			duration: 60,
			want:     true,
		},
		{
			name:     "partial overlap from the left",
			start:    time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
			duration: 60,
			want:     true,
		},
		{
			name:     "partial overlap from the right",
			start:    time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC),
			duration: 60,
			want:     true,
		},
		{
			name:     "contained interval",
			start:    time.Date(2025, 6, 2, 10, 15, 0, 0, time.UTC),
			duration: 15,
			want:     true,
		},
		{
			name:     "back to back before",
			start:    time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
			duration: 60,
			want:     false,
		},
		{
			name:     "back to back after",
			start:    time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
			duration: 60,
			want:     false,
		},
		{
			name:     "disjoint",
			start:    time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC),
			duration: 30,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, appt.Overlaps(tt.start, tt.duration))
		})
	}
}

func TestAppointment_EndAt(t *testing.T) {
	appt := &Appointment{
		StartAt:         time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 90,
	}
	assert.Equal(t, time.Date(2025, 6, 2, 11, 30, 0, 0, time.UTC), appt.EndAt())
}

func TestAppointment_StatusChecks(t *testing.T) {
	tests := []struct {
		status         AppointmentStatus
		active         bool
		cancelled      bool
		canBeCancelled bool
	}{
		{StatusPending, true, false, true},
		{StatusConfirmed, true, false, true},
		{StatusCancelled, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			appt := &Appointment{Status: tt.status}
			assert.Equal(t, tt.active, appt.IsActive())
			assert.Equal(t, tt.cancelled, appt.IsCancelled())
			assert.Equal(t, tt.canBeCancelled, appt.CanBeCancelled())
		})
	}
}
