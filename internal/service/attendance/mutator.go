package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
)

// Device sync and the manual break API can race on the same day record, so
// every mutation is a read-modify-write guarded by the aggregate's version
// field. On conflict the mutation is retried against a fresh read a bounded
// number of times before ErrConcurrencyConflict surfaces.
const (
	maxConflictRetries = 3
	conflictBackoff    = 25 * time.Millisecond
)

// Mutator is the single write path to the attendance aggregate store.
type Mutator struct {
	repo attendance.DayRepository
}

func NewMutator(repo attendance.DayRepository) *Mutator {
	return &Mutator{repo: repo}
}

// Mutate loads the day for (employeeID, date), applies fn and persists the
// result. When no day exists yet and create is non-nil, a fresh aggregate
// from create is mutated and inserted instead; a concurrent insert of the
// same key is treated like any other version conflict. fn returning an
// error aborts without mutating anything.
func (m *Mutator) Mutate(
	ctx context.Context,
	employeeID string,
	date time.Time,
	create func() attendance.Day,
	fn func(day *attendance.Day) error,
) (attendance.Day, error) {
	var lastErr error

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("Attendance version conflict, retrying with fresh read",
				"employee_id", employeeID,
				"date", date.Format("2006-01-02"),
				"attempt", attempt)
			time.Sleep(time.Duration(attempt) * conflictBackoff)
		}

		day, err := m.repo.GetByEmployeeAndDate(ctx, employeeID, date)
		switch {
		case err == nil:
			if err := fn(&day); err != nil {
				return attendance.Day{}, err
			}
			if err := m.repo.Update(ctx, day); err != nil {
				if errors.Is(err, attendance.ErrVersionConflict) {
					lastErr = err
					continue
				}
				return attendance.Day{}, fmt.Errorf("update attendance day: %w", err)
			}
			day.Version++
			return day, nil

		case errors.Is(err, attendance.ErrDayNotFound):
			if create == nil {
				return attendance.Day{}, attendance.ErrDayNotFound
			}
			day := create()
			if err := fn(&day); err != nil {
				return attendance.Day{}, err
			}
			created, err := m.repo.Create(ctx, day)
			if err != nil {
				if errors.Is(err, attendance.ErrVersionConflict) {
					// Another writer created the day first; re-read it.
					lastErr = err
					continue
				}
				return attendance.Day{}, fmt.Errorf("create attendance day: %w", err)
			}
			return created, nil

		default:
			return attendance.Day{}, fmt.Errorf("load attendance day: %w", err)
		}
	}

	return attendance.Day{}, fmt.Errorf("%w: %v", attendance.ErrConcurrencyConflict, lastErr)
}
