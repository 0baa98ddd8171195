package sync

import (
	"math"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
)

// Break state machine per break type: none -> ongoing -> completed or
// exceeded. Device punches inside a break window alternate start/end; the
// manual break API drives the same transitions with extra preconditions.

// StartBreak opens a break of the configured type. The caller has already
// established there is no ongoing break of this type.
func StartBreak(day *attendance.Day, cfg shift.BreakConfig, at time.Time, recordedBy string) {
	day.Breaks = append(day.Breaks, attendance.Break{
		Type:       cfg.Type,
		Name:       cfg.Name,
		StartTime:  at,
		Status:     attendance.BreakOngoing,
		RecordedBy: recordedBy,
	})
}

// EndBreak closes an ongoing break, fixes its duration to whole minutes and
// marks it exceeded when it overran the configured maximum. Derived day
// totals are recomputed afterwards.
func EndBreak(day *attendance.Day, ongoing *attendance.Break, cfg shift.BreakConfig, s shift.Shift, policy shift.Policy, at time.Time) {
	end := at
	ongoing.EndTime = &end
	ongoing.Duration = roundToMinutes(at.Sub(ongoing.StartTime))

	if ongoing.Duration > cfg.MaxDuration {
		ongoing.Status = attendance.BreakExceeded
	} else {
		ongoing.Status = attendance.BreakCompleted
	}

	RecalcAfterBreak(day, s, policy)
}

// RecalcAfterBreak refreshes totalBreakTime, compliance and, once the day
// has both punches, the net-hour metrics and status.
func RecalcAfterBreak(day *attendance.Day, s shift.Shift, policy shift.Policy) {
	day.RecalcTotalBreakTime()
	day.BreakCompliance = attendance.BreakComplianceFor(day.TotalBreakTime, s.ScheduledBreakTotal())

	if day.CheckIn == nil || day.CheckOut == nil {
		return
	}

	day.WorkHours = attendance.GrossWorkHours(day.CheckIn.Time, day.CheckOut.Time)
	day.NetWorkHours = attendance.NetWorkHours(day.WorkHours, day.TotalBreakTime)
	day.Overtime = attendance.Overtime(day.NetWorkHours, policy.WorkingHours)

	if day.NetWorkHours < policy.WorkingHours/2 && day.Status != attendance.StatusLate {
		day.ApplyStatus(attendance.StatusHalfDay)
	}
}

// roundToMinutes rounds a duration to the nearest whole minute.
func roundToMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}
