package sync

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/device"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
	"github.com/attendsync/attendance-backend-go/internal/domain/syncaudit"
	attendancesvc "github.com/attendsync/attendance-backend-go/internal/service/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testFacility() facility.Facility {
	return facility.Facility{
		ID:           "fac-1",
		Code:         "HQ",
		Timezone:     "UTC",
		Status:       "active",
		DeviceAPIURL: "http://device.local/events",
		AutoSync:     true,
		SyncStatus:   facility.SyncPending,
	}
}

func testEmployee() employee.Employee {
	shiftID := "shift-day"
	return employee.Employee{
		ID:         "emp-1",
		FacilityID: "fac-1",
		ShiftID:    &shiftID,
		StaffID:    "S-001",
		FirstName:  "Ana",
		LastName:   "Larasati",
		DeviceID:   strPtr("p-1"),
		CardID:     strPtr("card-1"),
		Status:     "active",
	}
}

type pipelineFixture struct {
	days     *fakeDayRepo
	failures *fakeFailureRepo
	pipeline *Pipeline
}

func newFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	days := newFakeDayRepo()
	failures := &fakeFailureRepo{}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{testEmployee()}}
	shifts := &fakeShiftRepo{shifts: []shift.Shift{testShift()}}
	return &pipelineFixture{
		days:     days,
		failures: failures,
		pipeline: NewPipeline(employees, shifts, attendancesvc.NewMutator(days), failures),
	}
}

func eventAt(identifier string, hh, mm int) device.Event {
	raw, _ := json.Marshal(map[string]string{"personUUID": identifier})
	return device.Event{
		Identifier: identifier,
		Name:       "Ana",
		Timestamp:  time.Date(2026, 3, 2, hh, mm, 0, 0, time.UTC),
		RawPayload: raw,
	}
}

func TestPipelineFullDay(t *testing.T) {
	f := newFixture(t)
	fac := testFacility()

	events := []device.Event{
		eventAt("p-1", 8, 55),
		eventAt("p-1", 12, 58),
		eventAt("p-1", 17, 5),
	}

	result := f.pipeline.ProcessEvents(context.Background(), fac, events, device.Info{DeviceID: "dev-9"})

	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 2, result.Applied)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, 0, result.Dropped)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day, ok := f.days.get("emp-1", date)
	require.True(t, ok)

	require.NotNil(t, day.CheckIn)
	require.NotNil(t, day.CheckOut)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 55, 0, 0, time.UTC), day.CheckIn.Time)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 5, 0, 0, time.UTC), day.CheckOut.Time)
	assert.Equal(t, "dev-9", day.CheckIn.SourceDeviceID)
	assert.Equal(t, attendance.StatusPresent, day.Status)
	assert.Equal(t, 8.17, day.WorkHours)
	assert.Len(t, day.RawAudit, 2)
}

func TestPipelineFirstWriteWins(t *testing.T) {
	f := newFixture(t)
	fac := testFacility()

	events := []device.Event{
		eventAt("p-1", 8, 50),
		eventAt("p-1", 8, 55),
		eventAt("p-1", 9, 0),
	}

	result := f.pipeline.ProcessEvents(context.Background(), fac, events, device.Info{})

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 2, result.Duplicates)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day, ok := f.days.get("emp-1", date)
	require.True(t, ok)
	require.NotNil(t, day.CheckIn)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 50, 0, 0, time.UTC), day.CheckIn.Time)
	assert.Nil(t, day.CheckOut)
}

func TestPipelineIdempotentReplay(t *testing.T) {
	f := newFixture(t)
	fac := testFacility()

	events := []device.Event{
		eventAt("p-1", 8, 55),
		eventAt("p-1", 17, 5),
	}

	first := f.pipeline.ProcessEvents(context.Background(), fac, events, device.Info{})
	require.Equal(t, 2, first.Applied)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	before, _ := f.days.get("emp-1", date)

	second := f.pipeline.ProcessEvents(context.Background(), fac, events, device.Info{})
	assert.Equal(t, 0, second.Applied)
	assert.Equal(t, 2, second.Duplicates)

	after, _ := f.days.get("emp-1", date)
	assert.Equal(t, before.CheckIn.Time, after.CheckIn.Time)
	assert.Equal(t, before.CheckOut.Time, after.CheckOut.Time)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.NetWorkHours, after.NetWorkHours)
}

func TestPipelineUnresolvedIdentityIsDropped(t *testing.T) {
	f := newFixture(t)
	fac := testFacility()

	result := f.pipeline.ProcessEvents(context.Background(), fac, []device.Event{
		eventAt("stranger", 9, 0),
	}, device.Info{})

	assert.Equal(t, 1, result.Dropped)
	require.Equal(t, 1, f.failures.count())
	assert.Equal(t, syncaudit.StageResolve, f.failures.failures[0].Stage)
}

func TestPipelineRejectsOrphanAfternoonPunch(t *testing.T) {
	f := newFixture(t)
	fac := testFacility()

	result := f.pipeline.ProcessEvents(context.Background(), fac, []device.Event{
		eventAt("p-1", 16, 0),
	}, device.Info{})

	assert.Equal(t, 1, result.Dropped)
	require.Equal(t, 1, f.failures.count())
	assert.Equal(t, syncaudit.StageClassify, f.failures.failures[0].Stage)

	// The rejected punch must not create a day record.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, ok := f.days.get("emp-1", date)
	assert.False(t, ok)
}

func TestPipelineDefaultShiftFallback(t *testing.T) {
	days := newFakeDayRepo()
	failures := &fakeFailureRepo{}
	unassigned := testEmployee()
	unassigned.ShiftID = nil
	employees := &fakeEmployeeRepo{employees: []employee.Employee{unassigned}}

	defaultShift := testShift()
	defaultShift.FacilityID = "fac-1"
	defaultShift.IsDefault = true

	pipeline := NewPipeline(employees, &fakeShiftRepo{shifts: []shift.Shift{defaultShift}}, attendancesvc.NewMutator(days), failures)

	result := pipeline.ProcessEvents(context.Background(), testFacility(), []device.Event{
		eventAt("p-1", 8, 55),
	}, device.Info{})

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 0, result.Dropped)
}

func TestPipelineBreakPunchesInsideWindow(t *testing.T) {
	f := newFixture(t)
	fac := testFacility()

	events := []device.Event{
		eventAt("p-1", 8, 55),
		eventAt("p-1", 13, 10),
		eventAt("p-1", 13, 50),
		eventAt("p-1", 17, 5),
	}

	result := f.pipeline.ProcessEvents(context.Background(), fac, events, device.Info{})
	assert.Equal(t, 4, result.Applied)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day, ok := f.days.get("emp-1", date)
	require.True(t, ok)
	require.Len(t, day.Breaks, 1)
	assert.Equal(t, attendance.BreakCompleted, day.Breaks[0].Status)
	assert.Equal(t, 40, day.Breaks[0].Duration)
	assert.Equal(t, 40, day.TotalBreakTime)
}
