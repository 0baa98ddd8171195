package attendance

import (
	"encoding/json"
	"time"
)

// Day statuses. A day's status only ever tightens toward a worse
// classification within the same day; see ApplyStatus.
const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusHalfDay = "half-day"
	StatusAbsent  = "absent"
	StatusOnLeave = "on-leave"
	StatusExcused = "excused"
)

// Break statuses.
const (
	BreakOngoing   = "ongoing"
	BreakCompleted = "completed"
	BreakExceeded  = "exceeded"
)

// Break compliance values for a whole day.
const (
	ComplianceCompliant    = "compliant"
	ComplianceExceeded     = "exceeded"
	ComplianceInsufficient = "insufficient"
	ComplianceNone         = "none"
)

// Punch is one recorded check-in or check-out on a day.
type Punch struct {
	Time           time.Time `json:"time"`
	Method         string    `json:"method"`
	SourceDeviceID string    `json:"source_device_id,omitempty"`
	RecordedBy     string    `json:"recorded_by"`
}

// Break is one tracked break interval nested inside a Day.
type Break struct {
	Type       string     `json:"type"`
	Name       string     `json:"name"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Duration   int        `json:"duration"`
	Status     string     `json:"status"`
	RecordedBy string     `json:"recorded_by"`
}

// Day is the per-(employee, date) attendance aggregate. Date is local
// midnight in the facility's timezone. Version guards concurrent writers.
type Day struct {
	ID                string
	EmployeeID        string
	FacilityID        string
	ShiftID           string
	Date              time.Time
	ScheduledCheckIn  time.Time
	ScheduledCheckOut time.Time
	CheckIn           *Punch
	CheckOut          *Punch
	Status            string
	WorkHours         float64
	NetWorkHours      float64
	Overtime          float64
	LateArrival       int
	EarlyArrival      int
	EarlyDeparture    int
	Breaks            []Break
	TotalBreakTime    int
	BreakCompliance   string
	RawAudit          []json.RawMessage
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Joined for read views
	EmployeeName *string
}

// OngoingBreak returns the break currently in progress, or nil.
func (d *Day) OngoingBreak() *Break {
	for i := range d.Breaks {
		if d.Breaks[i].Status == BreakOngoing {
			return &d.Breaks[i]
		}
	}
	return nil
}

// OngoingBreakOfType returns the in-progress break of the given type, or nil.
func (d *Day) OngoingBreakOfType(breakType string) *Break {
	for i := range d.Breaks {
		if d.Breaks[i].Status == BreakOngoing && d.Breaks[i].Type == breakType {
			return &d.Breaks[i]
		}
	}
	return nil
}

// statusRank orders statuses so ApplyStatus can refuse downgrades.
func statusRank(status string) int {
	switch status {
	case StatusAbsent:
		return 0
	case StatusPresent:
		return 1
	case StatusHalfDay:
		return 2
	case StatusLate:
		return 3
	case StatusOnLeave, StatusExcused:
		return 4
	default:
		return 0
	}
}

// ApplyStatus tightens the day's status. A downgrade (e.g. late back to
// present) is silently ignored.
func (d *Day) ApplyStatus(status string) {
	if statusRank(status) >= statusRank(d.Status) {
		d.Status = status
	}
}

// RecalcTotalBreakTime sums durations of completed and exceeded breaks.
func (d *Day) RecalcTotalBreakTime() {
	total := 0
	for _, b := range d.Breaks {
		if b.Status == BreakCompleted || b.Status == BreakExceeded {
			total += b.Duration
		}
	}
	d.TotalBreakTime = total
}

// AppendAudit records the raw device payload on the day's append-only log.
func (d *Day) AppendAudit(raw json.RawMessage) {
	if len(raw) == 0 {
		return
	}
	d.RawAudit = append(d.RawAudit, raw)
}
