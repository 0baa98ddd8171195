package shift

import (
	"time"
)

// Shift is the work-schedule policy assigned to an employee. Start and end
// times are "HH:MM" strings in the facility's local timezone.
type Shift struct {
	ID                   string
	FacilityID           string
	Name                 string
	Code                 string
	StartTime            string
	EndTime              string
	WorkingHours         float64
	GraceCheckInMins     int
	GraceCheckOutMins    int
	BreakTrackingEnabled bool
	DefaultBreakMinutes  int
	Breaks               []BreakConfig
	IsDefault            bool
	Status               string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// BreakConfig describes one configured break window within a shift.
type BreakConfig struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	StartWindow string `json:"start_window"`
	EndWindow   string `json:"end_window"`
	Duration    int    `json:"duration"`
	MaxDuration int    `json:"max_duration"`
	IsPaid      bool   `json:"is_paid"`
}

// ScheduledBreakTotal is the sum of expected break durations, in minutes.
func (s Shift) ScheduledBreakTotal() int {
	total := 0
	for _, b := range s.Breaks {
		total += b.Duration
	}
	return total
}
