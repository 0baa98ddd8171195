package leave

import "time"

// Request is an approved-leave row as seen by the reporting side. The
// approval workflow itself lives in another system; this package only reads.
type Request struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	HalfDay    bool
	Status     string
}

// Covers reports whether the leave spans the given date.
func (r Request) Covers(date time.Time) bool {
	return !date.Before(r.StartDate) && !date.After(r.EndDate)
}
