package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/attendance"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type attendanceRepository struct {
	db *database.DB
}

const dayColumns = `
	a.id, a.employee_id, a.facility_id, a.shift_id, a.date,
	a.scheduled_check_in, a.scheduled_check_out,
	a.check_in, a.check_out, a.status,
	a.work_hours, a.net_work_hours, a.overtime,
	a.late_arrival, a.early_arrival, a.early_departure,
	a.breaks, a.total_break_time, a.break_compliance,
	a.raw_audit, a.version, a.created_at, a.updated_at
`

// Create implements attendance.DayRepository. A concurrent insert of the
// same (employee, date) key trips the unique index and surfaces as
// ErrVersionConflict so the mutator can re-read and retry.
func (a *attendanceRepository) Create(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	day.ID = uuid.New().String()
	day.Version = 1

	query := `
		INSERT INTO attendance_days (
			id, employee_id, facility_id, shift_id, date,
			scheduled_check_in, scheduled_check_out,
			check_in, check_out, status,
			work_hours, net_work_hours, overtime,
			late_arrival, early_arrival, early_departure,
			breaks, total_break_time, break_compliance,
			raw_audit, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.ID, day.EmployeeID, day.FacilityID, day.ShiftID, day.Date,
		day.ScheduledCheckIn, day.ScheduledCheckOut,
		day.CheckIn, day.CheckOut, day.Status,
		day.WorkHours, day.NetWorkHours, day.Overtime,
		day.LateArrival, day.EarlyArrival, day.EarlyDeparture,
		day.Breaks, day.TotalBreakTime, day.BreakCompliance,
		day.RawAudit, day.Version,
	).Scan(&day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return attendance.Day{}, attendance.ErrVersionConflict
		}
		return attendance.Day{}, fmt.Errorf("failed to create attendance day: %w", err)
	}

	return day, nil
}

// GetByEmployeeAndDate implements attendance.DayRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1
		  AND a.date = $2
		LIMIT 1
	`

	day, err := scanDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Day{}, attendance.ErrDayNotFound
		}
		return attendance.Day{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	return day, nil
}

// Update implements attendance.DayRepository. The version predicate is the
// optimistic-concurrency guard: zero affected rows means another writer got
// there first.
func (a *attendanceRepository) Update(ctx context.Context, day attendance.Day) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_days SET
			check_in = $1, check_out = $2, status = $3,
			work_hours = $4, net_work_hours = $5, overtime = $6,
			late_arrival = $7, early_arrival = $8, early_departure = $9,
			breaks = $10, total_break_time = $11, break_compliance = $12,
			raw_audit = $13, version = version + 1, updated_at = NOW()
		WHERE id = $14 AND version = $15
	`

	tag, err := q.Exec(ctx, query,
		day.CheckIn, day.CheckOut, day.Status,
		day.WorkHours, day.NetWorkHours, day.Overtime,
		day.LateArrival, day.EarlyArrival, day.EarlyDeparture,
		day.Breaks, day.TotalBreakTime, day.BreakCompliance,
		day.RawAudit, day.ID, day.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrVersionConflict
	}

	return nil
}

// List implements attendance.DayRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Day, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.FacilityID != nil && *filter.FacilityID != "" {
		baseWhere += fmt.Sprintf(" AND a.facility_id = $%d", argIdx)
		args = append(args, *filter.FacilityID)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendance_days a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance days: %w", err)
	}

	query := `
		SELECT ` + dayColumns + `, e.first_name || ' ' || e.last_name AS employee_name
		FROM attendance_days a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere + `
		ORDER BY a.date, a.employee_id
		LIMIT $` + fmt.Sprint(argIdx) + ` OFFSET $` + fmt.Sprint(argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	days, err := collectDays(rows, true)
	if err != nil {
		return nil, 0, err
	}
	return days, total, nil
}

// ListForRange implements attendance.DayRepository.
func (a *attendanceRepository) ListForRange(ctx context.Context, filter attendance.RangeFilter) ([]attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.date >= $1 AND a.date <= $2"
	args := []interface{}{filter.StartDate, filter.EndDate}
	argIdx := 3

	if filter.FacilityID != nil && *filter.FacilityID != "" {
		baseWhere += fmt.Sprintf(" AND a.facility_id = $%d", argIdx)
		args = append(args, *filter.FacilityID)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	query := `
		SELECT ` + dayColumns + `, e.first_name || ' ' || e.last_name AS employee_name
		FROM attendance_days a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere + `
		ORDER BY a.date, a.employee_id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days for range: %w", err)
	}
	defer rows.Close()

	return collectDays(rows, true)
}

// ListWithBreaks implements attendance.DayRepository.
func (a *attendanceRepository) ListWithBreaks(ctx context.Context, employeeID string, from, to time.Time, limit int) ([]attendance.Day, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1
		  AND a.date >= $2
		  AND a.date <= $3
		  AND jsonb_array_length(a.breaks) > 0
		ORDER BY a.date DESC
		LIMIT $4
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list days with breaks: %w", err)
	}
	defer rows.Close()

	return collectDays(rows, false)
}

func scanDay(row pgx.Row) (attendance.Day, error) {
	var day attendance.Day
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.FacilityID, &day.ShiftID, &day.Date,
		&day.ScheduledCheckIn, &day.ScheduledCheckOut,
		&day.CheckIn, &day.CheckOut, &day.Status,
		&day.WorkHours, &day.NetWorkHours, &day.Overtime,
		&day.LateArrival, &day.EarlyArrival, &day.EarlyDeparture,
		&day.Breaks, &day.TotalBreakTime, &day.BreakCompliance,
		&day.RawAudit, &day.Version, &day.CreatedAt, &day.UpdatedAt,
	)
	return day, err
}

func collectDays(rows pgx.Rows, withName bool) ([]attendance.Day, error) {
	var days []attendance.Day
	for rows.Next() {
		var day attendance.Day
		dest := []interface{}{
			&day.ID, &day.EmployeeID, &day.FacilityID, &day.ShiftID, &day.Date,
			&day.ScheduledCheckIn, &day.ScheduledCheckOut,
			&day.CheckIn, &day.CheckOut, &day.Status,
			&day.WorkHours, &day.NetWorkHours, &day.Overtime,
			&day.LateArrival, &day.EarlyArrival, &day.EarlyDeparture,
			&day.Breaks, &day.TotalBreakTime, &day.BreakCompliance,
			&day.RawAudit, &day.Version, &day.CreatedAt, &day.UpdatedAt,
		}
		if withName {
			dest = append(dest, &day.EmployeeName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance days: %w", err)
	}
	return days, nil
}

func NewAttendanceRepository(db *database.DB) attendance.DayRepository {
	return &attendanceRepository{db: db}
}
