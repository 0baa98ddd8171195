package shift

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy holds the time boundaries derived from a shift, all expressed as
// minutes from midnight in the facility's timezone.
type Policy struct {
	StartMinutes            int
	EndMinutes              int
	Midpoint                int
	LateThreshold           int
	EarlyThreshold          int
	EarlyDepartureThreshold int
	WorkingHours            float64
}

// earlyArrivalWindow is how many minutes before shift start an arrival counts
// as "early" rather than merely on time.
const earlyArrivalWindow = 30

// NewPolicy evaluates a shift into its classification boundaries.
func NewPolicy(s Shift) (Policy, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid shift start time %q: %w", s.StartTime, err)
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return Policy{}, fmt.Errorf("invalid shift end time %q: %w", s.EndTime, err)
	}

	return Policy{
		StartMinutes:            start,
		EndMinutes:              end,
		Midpoint:                (start + end) / 2,
		LateThreshold:           start + s.GraceCheckInMins,
		EarlyThreshold:          start - earlyArrivalWindow,
		EarlyDepartureThreshold: end - s.GraceCheckOutMins,
		WorkingHours:            s.WorkingHours,
	}, nil
}

// ParseClock converts an "HH:MM" string to minutes from midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value out of range: %q", clock)
	}
	return hours*60 + minutes, nil
}

// BreakWindow returns the break config whose window contains the given
// minute-of-day, or nil when none matches.
func BreakWindow(breaks []BreakConfig, minuteOfDay int) *BreakConfig {
	for i := range breaks {
		start, err := ParseClock(breaks[i].StartWindow)
		if err != nil {
			continue
		}
		end, err := ParseClock(breaks[i].EndWindow)
		if err != nil {
			continue
		}
		if minuteOfDay >= start && minuteOfDay <= end {
			return &breaks[i]
		}
	}
	return nil
}
