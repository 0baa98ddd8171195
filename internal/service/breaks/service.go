package breaks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
	attendancesvc "github.com/attendsync/attendance-backend-go/internal/service/attendance"
	syncsvc "github.com/attendsync/attendance-backend-go/internal/service/sync"
)

const manualRecorder = "manual"

// Service is the manual break API: supervisors start and end breaks for
// employees whose device punches missed a break window. It shares the
// optimistic-concurrency write path with the device sync pipeline.
type Service struct {
	days       attendance.DayRepository
	mutator    *attendancesvc.Mutator
	employees  employee.EmployeeRepository
	facilities facility.FacilityRepository
	shifts     shift.ShiftRepository
}

func NewService(
	days attendance.DayRepository,
	mutator *attendancesvc.Mutator,
	employees employee.EmployeeRepository,
	facilities facility.FacilityRepository,
	shifts shift.ShiftRepository,
) *Service {
	return &Service{
		days:       days,
		mutator:    mutator,
		employees:  employees,
		facilities: facilities,
		shifts:     shifts,
	}
}

// StartBreak opens a break of the requested type on the employee's current
// day. The employee must be checked in, not checked out, and not already on
// a break.
func (s *Service) StartBreak(ctx context.Context, req attendance.StartBreakRequest) (attendance.BreakStatusResponse, error) {
	env, err := s.resolveEnvironment(ctx, req.EmployeeID)
	if err != nil {
		return attendance.BreakStatusResponse{}, err
	}

	if !env.shift.BreakTrackingEnabled {
		return attendance.BreakStatusResponse{}, attendance.ErrBreakTrackingDisabled
	}
	cfg := configFor(env.shift, req.BreakType)
	if cfg == nil {
		return attendance.BreakStatusResponse{}, attendance.ErrBreakTypeNotConfigured
	}

	now := time.Now()
	day, err := s.mutator.Mutate(ctx, req.EmployeeID, env.today, nil, func(day *attendance.Day) error {
		if day.CheckIn == nil {
			return attendance.ErrNotCheckedIn
		}
		if day.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if day.OngoingBreak() != nil {
			return attendance.ErrAlreadyOnBreak
		}
		syncsvc.StartBreak(day, *cfg, now, manualRecorder)
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDayNotFound) {
			return attendance.BreakStatusResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.BreakStatusResponse{}, err
	}

	return statusOf(day, env.shift, now), nil
}

// EndBreak closes the employee's ongoing break, whatever its type.
func (s *Service) EndBreak(ctx context.Context, req attendance.EndBreakRequest) (attendance.BreakStatusResponse, error) {
	env, err := s.resolveEnvironment(ctx, req.EmployeeID)
	if err != nil {
		return attendance.BreakStatusResponse{}, err
	}

	now := time.Now()
	day, err := s.mutator.Mutate(ctx, req.EmployeeID, env.today, nil, func(day *attendance.Day) error {
		ongoing := day.OngoingBreak()
		if ongoing == nil {
			return attendance.ErrNoActiveBreak
		}
		cfg := configFor(env.shift, ongoing.Type)
		if cfg == nil {
			// Shift config changed under an open break; close it
			// against its recorded type with no maximum.
			cfg = &shift.BreakConfig{Type: ongoing.Type, Name: ongoing.Name, MaxDuration: int(^uint(0) >> 1)}
		}
		syncsvc.EndBreak(day, ongoing, *cfg, env.shift, env.policy, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrDayNotFound) {
			return attendance.BreakStatusResponse{}, attendance.ErrNoActiveBreak
		}
		return attendance.BreakStatusResponse{}, err
	}

	return statusOf(day, env.shift, now), nil
}

// GetBreakStatus reports the employee's current-day break state. A missing
// day record is a valid state: no breaks yet.
func (s *Service) GetBreakStatus(ctx context.Context, employeeID string) (attendance.BreakStatusResponse, error) {
	env, err := s.resolveEnvironment(ctx, employeeID)
	if err != nil {
		return attendance.BreakStatusResponse{}, err
	}

	day, err := s.days.GetByEmployeeAndDate(ctx, employeeID, env.today)
	if err != nil {
		if errors.Is(err, attendance.ErrDayNotFound) {
			return attendance.BreakStatusResponse{
				AllBreaks:            []attendance.BreakResponse{},
				BreakCompliance:      attendance.ComplianceNone,
				BreakTrackingEnabled: env.shift.BreakTrackingEnabled,
			}, nil
		}
		return attendance.BreakStatusResponse{}, err
	}

	return statusOf(day, env.shift, time.Now()), nil
}

// GetBreakHistory lists the employee's recent days that carried breaks,
// newest first.
func (s *Service) GetBreakHistory(ctx context.Context, employeeID string, from, to time.Time, limit int) ([]attendance.BreakHistoryEntry, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	days, err := s.days.ListWithBreaks(ctx, employeeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list break history: %w", err)
	}

	entries := make([]attendance.BreakHistoryEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, attendance.BreakHistoryEntry{
			Date:            day.Date.Format("2006-01-02"),
			Breaks:          attendance.NewBreakResponses(day.Breaks),
			TotalBreakTime:  day.TotalBreakTime,
			BreakCompliance: day.BreakCompliance,
			Status:          day.Status,
		})
	}
	return entries, nil
}

// environment is everything a break mutation needs around the day record.
type environment struct {
	employee employee.Employee
	shift    shift.Shift
	policy   shift.Policy
	today    time.Time
}

func (s *Service) resolveEnvironment(ctx context.Context, employeeID string) (environment, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return environment{}, err
	}

	fac, err := s.facilities.GetByID(ctx, emp.FacilityID)
	if err != nil {
		return environment{}, err
	}

	empShift, err := s.resolveShift(ctx, emp)
	if err != nil {
		return environment{}, err
	}
	policy, err := shift.NewPolicy(empShift)
	if err != nil {
		return environment{}, err
	}

	now := time.Now().In(fac.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, fac.Location())

	return environment{
		employee: emp,
		shift:    empShift,
		policy:   policy,
		today:    today,
	}, nil
}

func (s *Service) resolveShift(ctx context.Context, emp employee.Employee) (shift.Shift, error) {
	if emp.ShiftID != nil {
		return s.shifts.GetByID(ctx, *emp.ShiftID)
	}
	shifts, err := s.shifts.ListByFacility(ctx, emp.FacilityID)
	if err != nil {
		return shift.Shift{}, err
	}
	for _, candidate := range shifts {
		if candidate.IsDefault {
			return candidate, nil
		}
	}
	return shift.Shift{}, shift.ErrNoShiftAssigned
}

func configFor(s shift.Shift, breakType string) *shift.BreakConfig {
	for i := range s.Breaks {
		if s.Breaks[i].Type == breakType {
			return &s.Breaks[i]
		}
	}
	return nil
}

func statusOf(day attendance.Day, empShift shift.Shift, now time.Time) attendance.BreakStatusResponse {
	resp := attendance.BreakStatusResponse{
		AllBreaks:            attendance.NewBreakResponses(day.Breaks),
		TotalBreakTime:       day.TotalBreakTime,
		BreakCompliance:      day.BreakCompliance,
		BreakTrackingEnabled: empShift.BreakTrackingEnabled,
	}
	if resp.AllBreaks == nil {
		resp.AllBreaks = []attendance.BreakResponse{}
	}
	if ongoing := day.OngoingBreak(); ongoing != nil {
		current := attendance.NewBreakResponse(*ongoing)
		resp.OnBreak = true
		resp.CurrentBreak = &current
		resp.CurrentDuration = int(now.Sub(ongoing.StartTime).Minutes())
	}
	return resp
}
