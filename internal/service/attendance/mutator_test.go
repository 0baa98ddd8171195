package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflictingDayRepo stores a single day and fails Update with a version
// conflict a configurable number of times before letting a write through.
type conflictingDayRepo struct {
	day           *attendance.Day
	failUpdates   int
	creates       int
	updates       int
	conflictsSeen int
}

func (r *conflictingDayRepo) Create(_ context.Context, day attendance.Day) (attendance.Day, error) {
	if r.day != nil {
		return attendance.Day{}, attendance.ErrVersionConflict
	}
	r.creates++
	day.ID = "day-1"
	day.Version = 1
	r.day = &day
	return day, nil
}

func (r *conflictingDayRepo) GetByEmployeeAndDate(_ context.Context, _ string, _ time.Time) (attendance.Day, error) {
	if r.day == nil {
		return attendance.Day{}, attendance.ErrDayNotFound
	}
	return *r.day, nil
}

func (r *conflictingDayRepo) Update(_ context.Context, day attendance.Day) error {
	r.updates++
	if r.failUpdates > 0 {
		r.failUpdates--
		r.conflictsSeen++
		// Simulate the concurrent writer that won the race.
		r.day.Version++
		return attendance.ErrVersionConflict
	}
	if day.Version != r.day.Version {
		return attendance.ErrVersionConflict
	}
	day.Version++
	r.day = &day
	return nil
}

func (r *conflictingDayRepo) List(_ context.Context, _ attendance.Filter) ([]attendance.Day, int64, error) {
	return nil, 0, nil
}

func (r *conflictingDayRepo) ListForRange(_ context.Context, _ attendance.RangeFilter) ([]attendance.Day, error) {
	return nil, nil
}

func (r *conflictingDayRepo) ListWithBreaks(_ context.Context, _ string, _, _ time.Time, _ int) ([]attendance.Day, error) {
	return nil, nil
}

func testDate() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func freshDay() attendance.Day {
	return attendance.Day{
		EmployeeID: "emp-1",
		FacilityID: "fac-1",
		Date:       testDate(),
		Status:     attendance.StatusAbsent,
	}
}

func TestMutateCreatesWhenMissing(t *testing.T) {
	repo := &conflictingDayRepo{}
	mutator := NewMutator(repo)

	day, err := mutator.Mutate(context.Background(), "emp-1", testDate(), freshDay, func(day *attendance.Day) error {
		day.Status = attendance.StatusPresent
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, 1, day.Version)
}

func TestMutateRequiresExistingWhenCreateIsNil(t *testing.T) {
	repo := &conflictingDayRepo{}
	mutator := NewMutator(repo)

	_, err := mutator.Mutate(context.Background(), "emp-1", testDate(), nil, func(day *attendance.Day) error {
		return nil
	})
	assert.ErrorIs(t, err, attendance.ErrDayNotFound)
}

func TestMutateRetriesOnVersionConflict(t *testing.T) {
	existing := freshDay()
	existing.ID = "day-1"
	existing.Version = 1
	repo := &conflictingDayRepo{day: &existing, failUpdates: 2}
	mutator := NewMutator(repo)

	day, err := mutator.Mutate(context.Background(), "emp-1", testDate(), nil, func(day *attendance.Day) error {
		day.Status = attendance.StatusPresent
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.conflictsSeen)
	assert.Equal(t, 3, repo.updates)
	assert.Equal(t, attendance.StatusPresent, day.Status)
}

func TestMutateGivesUpAfterBoundedRetries(t *testing.T) {
	existing := freshDay()
	existing.ID = "day-1"
	existing.Version = 1
	repo := &conflictingDayRepo{day: &existing, failUpdates: 10}
	mutator := NewMutator(repo)

	_, err := mutator.Mutate(context.Background(), "emp-1", testDate(), nil, func(day *attendance.Day) error {
		return nil
	})
	assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)
	assert.Equal(t, 4, repo.updates)
}

func TestMutateAbortsWithoutWritingWhenFnFails(t *testing.T) {
	existing := freshDay()
	existing.ID = "day-1"
	existing.Version = 1
	repo := &conflictingDayRepo{day: &existing}
	mutator := NewMutator(repo)

	sentinel := attendance.ErrNotCheckedIn
	_, err := mutator.Mutate(context.Background(), "emp-1", testDate(), nil, func(day *attendance.Day) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, repo.updates)
}
