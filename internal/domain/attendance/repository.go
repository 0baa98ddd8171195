package attendance

import (
	"context"
	"time"
)

// DayRepository is the attendance aggregate store. Writers must go through
// the optimistic-concurrency discipline: read the current version, apply
// changes, then Update; Update fails with ErrVersionConflict when another
// writer got there first.
type DayRepository interface {
	// Create inserts a new day record. The (employee, date) pair is
	// unique; a concurrent insert surfaces as ErrVersionConflict so the
	// caller can re-read and retry.
	Create(ctx context.Context, day Day) (Day, error)

	// GetByEmployeeAndDate retrieves the aggregate for one employee on
	// one local-midnight date. Returns ErrDayNotFound when absent.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Day, error)

	// Update persists the aggregate guarded by its version field.
	Update(ctx context.Context, day Day) error

	// List retrieves day rows with filters and pagination, ordered by
	// date then employee.
	List(ctx context.Context, filter Filter) ([]Day, int64, error)

	// ListForRange retrieves all day rows in a date window, unpaginated,
	// for the reporting aggregator.
	ListForRange(ctx context.Context, filter RangeFilter) ([]Day, error)

	// ListWithBreaks retrieves an employee's recent days that carry at
	// least one break, newest first.
	ListWithBreaks(ctx context.Context, employeeID string, from, to time.Time, limit int) ([]Day, error)
}
