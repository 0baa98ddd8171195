package sync

import (
	"testing"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndBreakDurationAndStatus(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)
	cfg := s.Breaks[0]

	t.Run("overrun break is exceeded with exact duration", func(t *testing.T) {
		in := punchAt(9, 0)
		day := &attendance.Day{Status: attendance.StatusPresent, CheckIn: &in}

		start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		StartBreak(day, cfg, start, punchRecorder)
		require.NotNil(t, day.OngoingBreakOfType("lunch"))

		end := time.Date(2026, 3, 2, 12, 50, 0, 0, time.UTC)
		EndBreak(day, day.OngoingBreakOfType("lunch"), cfg, s, policy, end)

		b := day.Breaks[0]
		assert.Equal(t, 50, b.Duration)
		assert.Equal(t, attendance.BreakExceeded, b.Status)
		assert.Equal(t, 50, day.TotalBreakTime)
	})

	t.Run("break within the maximum is completed", func(t *testing.T) {
		in := punchAt(9, 0)
		day := &attendance.Day{Status: attendance.StatusPresent, CheckIn: &in}

		start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
		StartBreak(day, cfg, start, punchRecorder)
		end := time.Date(2026, 3, 2, 12, 40, 0, 0, time.UTC)
		EndBreak(day, day.OngoingBreakOfType("lunch"), cfg, s, policy, end)

		b := day.Breaks[0]
		assert.Equal(t, 40, b.Duration)
		assert.Equal(t, attendance.BreakCompleted, b.Status)
	})
}

func TestRecalcAfterBreakRefreshesDayMetrics(t *testing.T) {
	s := testShift()
	policy := testPolicy(t, s)
	cfg := s.Breaks[0]

	in := punchAt(9, 0)
	out := punchAt(17, 0)
	day := &attendance.Day{Status: attendance.StatusPresent, CheckIn: &in, CheckOut: &out, WorkHours: 8.0, NetWorkHours: 8.0}

	start := time.Date(2026, 3, 2, 13, 10, 0, 0, time.UTC)
	StartBreak(day, cfg, start, "manual")
	end := time.Date(2026, 3, 2, 14, 10, 0, 0, time.UTC)
	EndBreak(day, day.OngoingBreakOfType("lunch"), cfg, s, policy, end)

	assert.Equal(t, 60, day.TotalBreakTime)
	assert.Equal(t, 7.0, day.NetWorkHours)
	assert.Equal(t, attendance.ComplianceCompliant, day.BreakCompliance)
}

func TestOngoingBreakExcludedFromTotal(t *testing.T) {
	s := testShift()
	cfg := s.Breaks[0]

	in := punchAt(9, 0)
	day := &attendance.Day{Status: attendance.StatusPresent, CheckIn: &in, TotalBreakTime: 15}

	StartBreak(day, cfg, time.Date(2026, 3, 2, 13, 10, 0, 0, time.UTC), punchRecorder)
	day.RecalcTotalBreakTime()

	assert.Equal(t, 0, day.TotalBreakTime)
}
