package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/config"
	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/domain/leave"
	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
)

const dateLayout = "2006-01-02"

// Service is the read-only reporting aggregator. It re-derives the merged
// per-day view from stored day rows, synthesizes absent rows for active
// employees with no record in the window, and overlays approved leave. The
// output is deterministic regardless of input ordering.
type Service struct {
	days      attendance.DayRepository
	employees employee.EmployeeRepository
	shifts    shift.ShiftRepository
	leaves    leave.LeaveRepository
	cfg       config.ReportConfig
}

func NewService(
	days attendance.DayRepository,
	employees employee.EmployeeRepository,
	shifts shift.ShiftRepository,
	leaves leave.LeaveRepository,
	cfg config.ReportConfig,
) *Service {
	return &Service{
		days:      days,
		employees: employees,
		shifts:    shifts,
		leaves:    leaves,
		cfg:       cfg,
	}
}

// ListDays returns paginated day rows for the attendance query surface. No
// synthesis happens here; only stored rows are returned.
func (s *Service) ListDays(ctx context.Context, filter attendance.Filter) (attendance.ListDaysResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > s.cfg.MaxPageSize {
		filter.Limit = s.cfg.MaxPageSize
	}

	days, total, err := s.days.List(ctx, filter)
	if err != nil {
		return attendance.ListDaysResponse{}, fmt.Errorf("list attendance days: %w", err)
	}

	workingHours := newShiftHoursCache(s.shifts)
	rows := make([]attendance.DayResponse, 0, len(days))
	for _, day := range days {
		rows = append(rows, s.toResponse(ctx, day, workingHours))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return attendance.ListDaysResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Days:       rows,
	}, nil
}

// RangeReport builds the merged per-day view over a bounded window:
// stored rows first, then synthesized absent rows, then the leave overlay.
func (s *Service) RangeReport(ctx context.Context, filter attendance.RangeFilter) ([]attendance.DayResponse, error) {
	from, to, err := s.parseRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	days, err := s.days.ListForRange(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list days for range: %w", err)
	}

	merged := mergeByKey(days)

	if err := s.synthesizeAbsences(ctx, filter, from, to, merged); err != nil {
		return nil, err
	}
	if err := s.overlayLeave(ctx, filter, from, to, merged); err != nil {
		return nil, err
	}

	rows := make([]attendance.Day, 0, len(merged))
	for _, day := range merged {
		rows = append(rows, *day)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})

	workingHours := newShiftHoursCache(s.shifts)
	out := make([]attendance.DayResponse, 0, len(rows))
	for _, day := range rows {
		if filter.Status != nil && day.Status != *filter.Status {
			continue
		}
		out = append(out, s.toResponse(ctx, day, workingHours))
	}
	return out, nil
}

// Summary aggregates the merged day view per employee.
func (s *Service) Summary(ctx context.Context, filter attendance.RangeFilter) (attendance.SummaryResponse, error) {
	rows, err := s.RangeReport(ctx, filter)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	byEmployee := make(map[string]*attendance.EmployeeSummary)
	order := make([]string, 0)
	for _, row := range rows {
		summary, ok := byEmployee[row.EmployeeID]
		if !ok {
			summary = &attendance.EmployeeSummary{
				EmployeeID:   row.EmployeeID,
				EmployeeName: row.EmployeeName,
			}
			byEmployee[row.EmployeeID] = summary
			order = append(order, row.EmployeeID)
		}

		switch row.Status {
		case attendance.StatusPresent:
			summary.DaysPresent++
		case attendance.StatusLate:
			summary.DaysLate++
		case attendance.StatusHalfDay:
			summary.DaysHalfDay++
		case attendance.StatusAbsent:
			summary.DaysAbsent++
		case attendance.StatusOnLeave, attendance.StatusExcused:
			summary.DaysOnLeave++
		}
		summary.TotalWorkHours = attendance.Round2(summary.TotalWorkHours + row.NetWorkHours)
		summary.TotalOvertime = attendance.Round2(summary.TotalOvertime + row.Overtime)
		summary.TotalUndertime = attendance.Round2(summary.TotalUndertime + row.Undertime)
		summary.TotalLateMinutes += row.LateArrival
	}

	sort.Strings(order)
	employees := make([]attendance.EmployeeSummary, 0, len(order))
	for _, id := range order {
		employees = append(employees, *byEmployee[id])
	}

	return attendance.SummaryResponse{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Employees: employees,
	}, nil
}

func (s *Service) parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad start date %q", attendance.ErrInvalidDateRange, start)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: bad end date %q", attendance.ErrInvalidDateRange, end)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end before start", attendance.ErrInvalidDateRange)
	}
	if int(to.Sub(from).Hours()/24)+1 > s.cfg.MaxRangeDays {
		return time.Time{}, time.Time{}, attendance.ErrRangeTooLarge
	}
	return from, to, nil
}

type dayKey struct {
	employeeID string
	date       string
}

// mergeByKey folds stored rows into one logical row per (employee, date).
// The unique index makes duplicates rare, but merging keeps the view correct
// if the store ever holds more than one row per key: punches are
// first-write-wins and the status follows the usual precedence rule.
func mergeByKey(days []attendance.Day) map[dayKey]*attendance.Day {
	sort.Slice(days, func(i, j int) bool {
		if !days[i].Date.Equal(days[j].Date) {
			return days[i].Date.Before(days[j].Date)
		}
		return days[i].EmployeeID < days[j].EmployeeID
	})

	merged := make(map[dayKey]*attendance.Day, len(days))
	for i := range days {
		key := dayKey{days[i].EmployeeID, days[i].Date.Format(dateLayout)}
		existing, ok := merged[key]
		if !ok {
			day := days[i]
			merged[key] = &day
			continue
		}
		if existing.CheckIn == nil {
			existing.CheckIn = days[i].CheckIn
		}
		if existing.CheckOut == nil {
			existing.CheckOut = days[i].CheckOut
		}
		existing.Breaks = append(existing.Breaks, days[i].Breaks...)
		existing.RecalcTotalBreakTime()
		existing.ApplyStatus(days[i].Status)
	}
	return merged
}

// synthesizeAbsences adds an absent row for every active employee and date
// in the window with no stored record. Needs an employee population to walk:
// the facility's active roster, or the single filtered employee.
func (s *Service) synthesizeAbsences(ctx context.Context, filter attendance.RangeFilter, from, to time.Time, merged map[dayKey]*attendance.Day) error {
	var population []employee.Employee
	switch {
	case filter.EmployeeID != nil:
		emp, err := s.employees.GetByID(ctx, *filter.EmployeeID)
		if err != nil {
			return err
		}
		population = []employee.Employee{emp}
	case filter.FacilityID != nil:
		var err error
		population, err = s.employees.ListActiveByFacility(ctx, *filter.FacilityID)
		if err != nil {
			return fmt.Errorf("list active employees: %w", err)
		}
	default:
		// No population to synthesize against.
		return nil
	}

	today := time.Now().Format(dateLayout)
	for _, emp := range population {
		name := emp.FullName()
		for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
			dateStr := date.Format(dateLayout)
			if dateStr >= today {
				// Never mark today or the future absent.
				continue
			}
			key := dayKey{emp.ID, dateStr}
			if _, ok := merged[key]; ok {
				continue
			}
			n := name
			merged[key] = &attendance.Day{
				EmployeeID:   emp.ID,
				FacilityID:   emp.FacilityID,
				Date:         date,
				Status:       attendance.StatusAbsent,
				EmployeeName: &n,
			}
		}
	}
	return nil
}

// overlayLeave replaces synthesized absences with on-leave (or half-day)
// rows and upgrades stored rows covered by full-day leave.
func (s *Service) overlayLeave(ctx context.Context, filter attendance.RangeFilter, from, to time.Time, merged map[dayKey]*attendance.Day) error {
	requests, err := s.leaves.ListApprovedInRange(ctx, filter.FacilityID, from, to)
	if err != nil {
		return fmt.Errorf("list approved leave: %w", err)
	}

	for _, req := range requests {
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
			if !req.Covers(date) {
				continue
			}
			key := dayKey{req.EmployeeID, date.Format(dateLayout)}
			status := attendance.StatusOnLeave
			if req.HalfDay {
				status = attendance.StatusHalfDay
			}

			day, ok := merged[key]
			if !ok {
				merged[key] = &attendance.Day{
					EmployeeID: req.EmployeeID,
					Date:       date,
					Status:     status,
				}
				continue
			}
			if day.Status == attendance.StatusAbsent {
				day.Status = status
			} else if !req.HalfDay {
				day.ApplyStatus(attendance.StatusOnLeave)
			}
		}
	}
	return nil
}

func (s *Service) toResponse(ctx context.Context, day attendance.Day, hours *shiftHoursCache) attendance.DayResponse {
	resp := attendance.NewDayResponse(day)
	if day.CheckIn != nil && day.CheckOut != nil {
		if wh, ok := hours.get(ctx, day.ShiftID); ok {
			resp.Undertime = attendance.Undertime(day.NetWorkHours, wh)
		}
	}
	return resp
}

// shiftHoursCache memoizes per-shift working hours for one request.
type shiftHoursCache struct {
	shifts shift.ShiftRepository
	hours  map[string]float64
}

func newShiftHoursCache(shifts shift.ShiftRepository) *shiftHoursCache {
	return &shiftHoursCache{shifts: shifts, hours: make(map[string]float64)}
}

func (c *shiftHoursCache) get(ctx context.Context, shiftID string) (float64, bool) {
	if shiftID == "" {
		return 0, false
	}
	if wh, ok := c.hours[shiftID]; ok {
		return wh, wh > 0
	}
	s, err := c.shifts.GetByID(ctx, shiftID)
	if err != nil {
		c.hours[shiftID] = 0
		return 0, false
	}
	c.hours[shiftID] = s.WorkingHours
	return s.WorkingHours, s.WorkingHours > 0
}
