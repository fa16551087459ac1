package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	a := &Appointment{ScheduledAt: base, DurationMinutes: 60}

	tests := []struct {
		name     string
		start    time.Time
		minutes  int
		overlaps bool
	}{
		{"same slot", base, 60, true},
		{"starts halfway through", base.Add(30 * time.Minute), 60, true},
		{"ends just after start", base.Add(-15 * time.Minute), 30, true},
		{"back to back after", base.Add(60 * time.Minute), 60, false},
		{"back to back before", base.Add(-60 * time.Minute), 60, false},
		{"different day", base.AddDate(0, 0, 1), 60, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := &Appointment{ScheduledAt: tt.start, DurationMinutes: tt.minutes}
			assert.Equal(t, tt.overlaps, a.Overlaps(other))
			assert.Equal(t, tt.overlaps, other.Overlaps(a))
		})
	}
}

func TestAppointmentIsBillable(t *testing.T) {
	appt := &Appointment{Status: AppointmentStatusCompleted, Invoiced: false}
	assert.True(t, appt.IsBillable())

	appt.Invoiced = true
	assert.False(t, appt.IsBillable())

	appt = &Appointment{Status: AppointmentStatusScheduled}
	assert.False(t, appt.IsBillable())

	appt.Status = AppointmentStatusCancelled
	assert.False(t, appt.IsBillable())
}

func TestAppointmentTransitionGuards(t *testing.T) {
	appt := &Appointment{Status: AppointmentStatusScheduled}
	assert.True(t, appt.MayComplete())
	assert.True(t, appt.MayCancel())

	appt.Status = AppointmentStatusCompleted
	assert.False(t, appt.MayComplete())
	assert.False(t, appt.MayCancel())
}

func TestAppointmentEndsAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	appt := &Appointment{ScheduledAt: start, DurationMinutes: 90}
	assert.Equal(t, start.Add(90*time.Minute), appt.EndsAt())
}
