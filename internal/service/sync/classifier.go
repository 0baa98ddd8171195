package sync

import (
	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
)

// DecisionKind is the classifier's verdict for one punch.
type DecisionKind int

const (
	// KindCheckIn records the day's first check-in.
	KindCheckIn DecisionKind = iota
	// KindCheckOut records the day's first check-out.
	KindCheckOut
	// KindBreakStart opens a break of Decision.Break's type.
	KindBreakStart
	// KindBreakEnd closes the ongoing break of Decision.Break's type.
	KindBreakEnd
	// KindDuplicate repeats an already-recorded punch and is ignored.
	KindDuplicate
	// KindRejected is an anomalous punch that must not mutate the day.
	KindRejected
)

func (k DecisionKind) String() string {
	switch k {
	case KindCheckIn:
		return "check-in"
	case KindCheckOut:
		return "check-out"
	case KindBreakStart:
		return "break-start"
	case KindBreakEnd:
		return "break-end"
	case KindDuplicate:
		return "duplicate"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Decision is the classifier's full verdict. Break is set for the two break
// kinds; Reason explains duplicates and rejections.
type Decision struct {
	Kind   DecisionKind
	Break  *shift.BreakConfig
	Reason string
}

// Classify decides what a punch at minuteOfDay means for the given day.
// The shift midpoint splits the day: at or before it a punch is a check-in
// attempt, after it a check-out attempt, unless it lands in a configured
// break window while the employee is on the clock.
//
// Classification never deletes state and never overwrites a recorded punch;
// repeats are duplicates and an after-midpoint punch with no prior check-in
// is an anomaly surfaced for manual review rather than guessed at.
func Classify(day *attendance.Day, s shift.Shift, policy shift.Policy, minuteOfDay int) Decision {
	hasCheckIn := day.CheckIn != nil
	hasCheckOut := day.CheckOut != nil

	if minuteOfDay <= policy.Midpoint {
		if hasCheckIn {
			return Decision{Kind: KindDuplicate, Reason: "check-in already recorded for this day"}
		}
		return Decision{Kind: KindCheckIn}
	}

	if hasCheckIn && !hasCheckOut && s.BreakTrackingEnabled {
		if cfg := shift.BreakWindow(s.Breaks, minuteOfDay); cfg != nil {
			if day.OngoingBreakOfType(cfg.Type) != nil {
				return Decision{Kind: KindBreakEnd, Break: cfg}
			}
			return Decision{Kind: KindBreakStart, Break: cfg}
		}
	}

	if !hasCheckIn {
		return Decision{
			Kind:   KindRejected,
			Reason: "punch after shift midpoint with no prior check-in, flagged for manual review",
		}
	}

	if hasCheckOut {
		return Decision{Kind: KindDuplicate, Reason: "check-out already recorded for this day"}
	}

	return Decision{Kind: KindCheckOut}
}

// applyCheckIn records the first check-in and derives arrival metrics.
func applyCheckIn(day *attendance.Day, policy shift.Policy, punch attendance.Punch, minuteOfDay int) {
	day.CheckIn = &punch

	switch {
	case minuteOfDay < policy.EarlyThreshold:
		day.EarlyArrival = policy.EarlyThreshold - minuteOfDay
		day.ApplyStatus(attendance.StatusPresent)
	case minuteOfDay > policy.LateThreshold:
		day.LateArrival = minuteOfDay - policy.LateThreshold
		day.ApplyStatus(attendance.StatusLate)
	default:
		// Arrival at exactly the late threshold is on time.
		day.ApplyStatus(attendance.StatusPresent)
	}
}

// applyCheckOut records the first check-out and derives the day's work
// metrics. A shift with break tracking disabled still subtracts its fixed
// break allowance from net hours.
func applyCheckOut(day *attendance.Day, s shift.Shift, policy shift.Policy, punch attendance.Punch, minuteOfDay int) {
	day.CheckOut = &punch

	if day.CheckIn == nil {
		return
	}

	breakMinutes := day.TotalBreakTime
	if breakMinutes == 0 && !s.BreakTrackingEnabled && s.DefaultBreakMinutes > 0 {
		breakMinutes = s.DefaultBreakMinutes
	}

	day.WorkHours = attendance.GrossWorkHours(day.CheckIn.Time, punch.Time)
	day.NetWorkHours = attendance.NetWorkHours(day.WorkHours, breakMinutes)
	day.Overtime = attendance.Overtime(day.NetWorkHours, policy.WorkingHours)

	if minuteOfDay < policy.EarlyDepartureThreshold {
		day.EarlyDeparture = policy.EarlyDepartureThreshold - minuteOfDay
	}

	if day.NetWorkHours < policy.WorkingHours/2 && day.Status != attendance.StatusLate {
		day.ApplyStatus(attendance.StatusHalfDay)
	} else if day.Status == attendance.StatusAbsent {
		day.ApplyStatus(attendance.StatusPresent)
	}
}
