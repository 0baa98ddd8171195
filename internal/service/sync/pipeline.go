package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/device"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
	"github.com/attendsync/attendance-backend-go/internal/domain/syncaudit"
	attendancesvc "github.com/attendsync/attendance-backend-go/internal/service/attendance"
)

const punchRecorder = "device-sync"

// Sentinels used inside the mutation closure so a no-op verdict aborts the
// write instead of bumping the aggregate version for nothing.
var (
	errDuplicatePunch = errors.New("duplicate punch")
	errRejectedPunch  = errors.New("rejected punch")
)

// Result tallies one facility's event batch.
type Result struct {
	Processed  int
	Applied    int
	Duplicates int
	Dropped    int
}

// Pipeline turns normalized device events into attendance day mutations.
// Each event is processed independently: a record that cannot be resolved or
// classified is recorded as a sync failure and the batch moves on.
type Pipeline struct {
	employees employee.EmployeeRepository
	shifts    shift.ShiftRepository
	mutator   *attendancesvc.Mutator
	failures  syncaudit.FailureRepository
}

func NewPipeline(
	employees employee.EmployeeRepository,
	shifts shift.ShiftRepository,
	mutator *attendancesvc.Mutator,
	failures syncaudit.FailureRepository,
) *Pipeline {
	return &Pipeline{
		employees: employees,
		shifts:    shifts,
		mutator:   mutator,
		failures:  failures,
	}
}

// NormalizeBatch converts raw gateway records into canonical events,
// recording every record that fails to normalize and carrying on.
func (p *Pipeline) NormalizeBatch(ctx context.Context, fac facility.Facility, records []device.RawRecord) []device.Event {
	loc := fac.Location()
	events := make([]device.Event, 0, len(records))

	for _, record := range records {
		event, err := NormalizeRecord(record, loc)
		if err != nil {
			raw, _ := json.Marshal(record)
			p.recordFailure(ctx, fac.ID, syncaudit.StageNormalize, err.Error(), raw)
			continue
		}
		events = append(events, event)
	}
	return events
}

// ProcessEvents applies one facility's event batch in timestamp order. The
// returned Result is informational; processing errors never abort the batch.
func (p *Pipeline) ProcessEvents(ctx context.Context, fac facility.Facility, events []device.Event, info device.Info) Result {
	var result Result

	// Shifts are stable within one batch; resolve each at most once.
	shiftCache := make(map[string]shift.Shift)

	for _, event := range events {
		result.Processed++

		emp, err := p.employees.FindByDeviceIdentity(ctx, fac.ID, employee.DeviceIdentity{
			Identifier: event.Identifier,
			CardID:     event.CardID,
			Name:       event.Name,
		})
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotResolved) {
				p.recordFailure(ctx, fac.ID, syncaudit.StageResolve, err.Error(), event.RawPayload)
				result.Dropped++
				continue
			}
			p.recordFailure(ctx, fac.ID, syncaudit.StageResolve, fmt.Sprintf("employee lookup failed: %v", err), event.RawPayload)
			result.Dropped++
			continue
		}

		empShift, err := p.resolveShift(ctx, fac.ID, emp, shiftCache)
		if err != nil {
			p.recordFailure(ctx, fac.ID, syncaudit.StageResolve, err.Error(), event.RawPayload)
			result.Dropped++
			continue
		}

		policy, err := shift.NewPolicy(empShift)
		if err != nil {
			p.recordFailure(ctx, fac.ID, syncaudit.StageClassify, err.Error(), event.RawPayload)
			result.Dropped++
			continue
		}

		outcome, err := p.applyEvent(ctx, fac, emp, empShift, policy, event, info)
		switch {
		case err == nil:
			result.Applied++
		case errors.Is(err, errDuplicatePunch):
			slog.Debug("Duplicate punch ignored",
				"facility_id", fac.ID,
				"employee_id", emp.ID,
				"reason", outcome.Reason)
			result.Duplicates++
		case errors.Is(err, errRejectedPunch):
			p.recordFailure(ctx, fac.ID, syncaudit.StageClassify, outcome.Reason, event.RawPayload)
			result.Dropped++
		default:
			p.recordFailure(ctx, fac.ID, syncaudit.StagePersist, err.Error(), event.RawPayload)
			result.Dropped++
		}
	}

	return result
}

// resolveShift returns the employee's assigned shift, falling back to the
// facility's default shift for employees without an assignment.
func (p *Pipeline) resolveShift(ctx context.Context, facilityID string, emp employee.Employee, cache map[string]shift.Shift) (shift.Shift, error) {
	if emp.ShiftID != nil {
		if s, ok := cache[*emp.ShiftID]; ok {
			return s, nil
		}
		s, err := p.shifts.GetByID(ctx, *emp.ShiftID)
		if err != nil {
			return shift.Shift{}, fmt.Errorf("shift %s: %w", *emp.ShiftID, err)
		}
		cache[*emp.ShiftID] = s
		return s, nil
	}

	const defaultKey = "__default__"
	if s, ok := cache[defaultKey]; ok {
		return s, nil
	}
	shifts, err := p.shifts.ListByFacility(ctx, facilityID)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("list facility shifts: %w", err)
	}
	for _, s := range shifts {
		if s.IsDefault {
			cache[defaultKey] = s
			return s, nil
		}
	}
	return shift.Shift{}, shift.ErrNoShiftAssigned
}

// applyEvent runs one punch through the classifier and persists the verdict
// under the optimistic-concurrency discipline.
func (p *Pipeline) applyEvent(
	ctx context.Context,
	fac facility.Facility,
	emp employee.Employee,
	empShift shift.Shift,
	policy shift.Policy,
	event device.Event,
	info device.Info,
) (Decision, error) {
	loc := fac.Location()
	local := event.Timestamp.In(loc)
	minuteOfDay := local.Hour()*60 + local.Minute()
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	punch := attendance.Punch{
		Time:           event.Timestamp,
		Method:         "biometric",
		SourceDeviceID: info.DeviceID,
		RecordedBy:     punchRecorder,
	}

	var outcome Decision

	_, err := p.mutator.Mutate(ctx, emp.ID, date,
		func() attendance.Day {
			return newDay(emp, fac, empShift, policy, date)
		},
		func(day *attendance.Day) error {
			outcome = Classify(day, empShift, policy, minuteOfDay)

			switch outcome.Kind {
			case KindCheckIn:
				applyCheckIn(day, policy, punch, minuteOfDay)
			case KindCheckOut:
				applyCheckOut(day, empShift, policy, punch, minuteOfDay)
			case KindBreakStart:
				StartBreak(day, *outcome.Break, event.Timestamp, punchRecorder)
			case KindBreakEnd:
				EndBreak(day, day.OngoingBreakOfType(outcome.Break.Type), *outcome.Break, empShift, policy, event.Timestamp)
			case KindDuplicate:
				return errDuplicatePunch
			case KindRejected:
				return errRejectedPunch
			}

			day.AppendAudit(event.RawPayload)
			return nil
		})
	return outcome, err
}

// newDay builds a fresh aggregate for an employee's first punch of the day.
func newDay(emp employee.Employee, fac facility.Facility, empShift shift.Shift, policy shift.Policy, date time.Time) attendance.Day {
	return attendance.Day{
		EmployeeID:        emp.ID,
		FacilityID:        fac.ID,
		ShiftID:           empShift.ID,
		Date:              date,
		ScheduledCheckIn:  date.Add(time.Duration(policy.StartMinutes) * time.Minute),
		ScheduledCheckOut: date.Add(time.Duration(policy.EndMinutes) * time.Minute),
		Status:            attendance.StatusAbsent,
		BreakCompliance:   attendance.ComplianceNone,
	}
}

// recordFailure appends a dropped-record entry, best effort.
func (p *Pipeline) recordFailure(ctx context.Context, facilityID, stage, reason string, raw json.RawMessage) {
	slog.Warn("Device record dropped",
		"facility_id", facilityID,
		"stage", stage,
		"reason", reason)

	err := p.failures.Record(ctx, syncaudit.Failure{
		FacilityID: facilityID,
		Stage:      stage,
		Reason:     reason,
		RawPayload: raw,
		OccurredAt: time.Now(),
	})
	if err != nil {
		slog.Error("Failed to record sync failure", "facility_id", facilityID, "error", err)
	}
}
