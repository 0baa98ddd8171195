package attendance

import "errors"

// Attendance domain errors
var (
	// Aggregate store errors
	ErrDayNotFound         = errors.New("attendance record not found")
	ErrVersionConflict     = errors.New("attendance record was modified concurrently")
	ErrConcurrencyConflict = errors.New("attendance update failed after repeated version conflicts")

	// Manual break protocol violations. These reject the single operation
	// and never mutate state.
	ErrNotCheckedIn           = errors.New("no active attendance found, check in first")
	ErrAlreadyCheckedOut      = errors.New("already checked out, cannot start break")
	ErrAlreadyOnBreak         = errors.New("a break is already in progress")
	ErrNoActiveBreak          = errors.New("no active break found")
	ErrBreakTrackingDisabled  = errors.New("break tracking is not enabled for this shift")
	ErrBreakTypeNotConfigured = errors.New("break type is not configured for this shift")

	// Reporting query bounds
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrRangeTooLarge    = errors.New("date range exceeds the maximum report window")
)
