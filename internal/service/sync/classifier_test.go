package sync

import (
	"testing"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShift() shift.Shift {
	return shift.Shift{
		ID:                   "shift-day",
		StartTime:            "09:00",
		EndTime:              "17:00",
		WorkingHours:         8,
		GraceCheckInMins:     15,
		GraceCheckOutMins:    15,
		BreakTrackingEnabled: true,
		Breaks: []shift.BreakConfig{
			{Type: "lunch", Name: "Lunch", StartWindow: "13:01", EndWindow: "14:00", Duration: 60, MaxDuration: 45},
		},
	}
}

func testPolicy(t *testing.T, s shift.Shift) shift.Policy {
	t.Helper()
	policy, err := shift.NewPolicy(s)
	require.NoError(t, err)
	return policy
}

func minuteOf(hh, mm int) int { return hh*60 + mm }

func punchAt(hh, mm int) attendance.Punch {
	return attendance.Punch{
		Time:       time.Date(2026, 3, 2, hh, mm, 0, 0, time.UTC),
		Method:     "biometric",
		RecordedBy: punchRecorder,
	}
}

func TestClassify(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)

	checkedIn := func() *attendance.Day {
		punch := punchAt(9, 0)
		return &attendance.Day{Status: attendance.StatusPresent, CheckIn: &punch}
	}

	tests := []struct {
		name string
		day  *attendance.Day
		at   int
		want DecisionKind
	}{
		{"first punch before midpoint is check-in", &attendance.Day{Status: attendance.StatusAbsent}, minuteOf(8, 55), KindCheckIn},
		{"punch exactly at midpoint is check-in", &attendance.Day{Status: attendance.StatusAbsent}, minuteOf(13, 0), KindCheckIn},
		{"second punch before midpoint is duplicate", checkedIn(), minuteOf(10, 0), KindDuplicate},
		{"punch after midpoint with check-in is check-out", checkedIn(), minuteOf(17, 5), KindCheckOut},
		{"punch after midpoint without check-in is rejected", &attendance.Day{Status: attendance.StatusAbsent}, minuteOf(16, 0), KindRejected},
		{"punch inside break window starts break", checkedIn(), minuteOf(13, 30), KindBreakStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.day, s, policy, tt.at)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestClassifyBreakAlternation(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)

	punch := punchAt(9, 0)
	day := &attendance.Day{Status: attendance.StatusPresent, CheckIn: &punch}

	first := Classify(day, s, policy, minuteOf(13, 30))
	require.Equal(t, KindBreakStart, first.Kind)
	require.NotNil(t, first.Break)
	assert.Equal(t, "lunch", first.Break.Type)

	StartBreak(day, *first.Break, time.Date(2026, 3, 2, 13, 30, 0, 0, time.UTC), punchRecorder)

	second := Classify(day, s, policy, minuteOf(13, 55))
	assert.Equal(t, KindBreakEnd, second.Kind)
}

func TestClassifyCheckOutAfterCheckOutIsDuplicate(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)

	in := punchAt(9, 0)
	out := punchAt(17, 0)
	day := &attendance.Day{Status: attendance.StatusPresent, CheckIn: &in, CheckOut: &out}

	got := Classify(day, s, policy, minuteOf(17, 30))
	assert.Equal(t, KindDuplicate, got.Kind)
}

func TestApplyCheckInLateBoundary(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)

	t.Run("at grace boundary is present", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(9, 15), minuteOf(9, 15))
		assert.Equal(t, attendance.StatusPresent, day.Status)
		assert.Equal(t, 0, day.LateArrival)
	})

	t.Run("one minute past grace is late", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(9, 16), minuteOf(9, 16))
		assert.Equal(t, attendance.StatusLate, day.Status)
		assert.Equal(t, 1, day.LateArrival)
	})

	t.Run("early arrival is measured", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(8, 20), minuteOf(8, 20))
		assert.Equal(t, attendance.StatusPresent, day.Status)
		assert.Equal(t, 10, day.EarlyArrival)
	})
}

func TestApplyCheckOutMetrics(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)

	t.Run("full day with breaks", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusPresent, TotalBreakTime: 60}
		applyCheckIn(day, policy, punchAt(9, 0), minuteOf(9, 0))
		applyCheckOut(day, s, policy, punchAt(17, 0), minuteOf(17, 0))

		assert.Equal(t, 8.0, day.WorkHours)
		assert.Equal(t, 7.0, day.NetWorkHours)
		assert.Equal(t, 0.0, day.Overtime)
		assert.Equal(t, attendance.StatusPresent, day.Status)
	})

	t.Run("short day becomes half-day", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(9, 0), minuteOf(9, 0))
		applyCheckOut(day, s, policy, punchAt(12, 0), minuteOf(12, 0))

		assert.Equal(t, attendance.StatusHalfDay, day.Status)
		assert.Equal(t, 3.0, day.NetWorkHours)
	})

	t.Run("late day is never downgraded to half-day", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(10, 0), minuteOf(10, 0))
		require.Equal(t, attendance.StatusLate, day.Status)

		applyCheckOut(day, s, policy, punchAt(12, 0), minuteOf(12, 0))
		assert.Equal(t, attendance.StatusLate, day.Status)
	})

	t.Run("early departure is measured", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(9, 0), minuteOf(9, 0))
		applyCheckOut(day, s, policy, punchAt(16, 30), minuteOf(16, 30))

		assert.Equal(t, 15, day.EarlyDeparture)
	})

	t.Run("disabled tracking subtracts the fixed allowance", func(t *testing.T) {
		fixed := testShift()
		fixed.BreakTrackingEnabled = false
		fixed.DefaultBreakMinutes = 30
		fixedPolicy := testPolicy(t, fixed)

		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, fixedPolicy, punchAt(9, 0), minuteOf(9, 0))
		applyCheckOut(day, fixed, fixedPolicy, punchAt(17, 0), minuteOf(17, 0))

		assert.Equal(t, 8.0, day.WorkHours)
		assert.Equal(t, 7.5, day.NetWorkHours)
	})

	t.Run("overtime beyond working hours", func(t *testing.T) {
		day := &attendance.Day{Status: attendance.StatusAbsent}
		applyCheckIn(day, policy, punchAt(9, 0), minuteOf(9, 0))
		applyCheckOut(day, s, policy, punchAt(19, 0), minuteOf(19, 0))

		assert.Equal(t, 10.0, day.NetWorkHours)
		assert.Equal(t, 2.0, day.Overtime)
	})
}
