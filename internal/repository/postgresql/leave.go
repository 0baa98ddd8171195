package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/leave"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

// ListApprovedInRange implements leave.LeaveRepository.
func (l *leaveRepository) ListApprovedInRange(ctx context.Context, facilityID *string, from, to time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, l.db)

	baseWhere := `
		lr.status = 'approved'
		AND lr.start_date <= $1
		AND lr.end_date >= $2
	`
	args := []interface{}{to, from}

	if facilityID != nil && *facilityID != "" {
		baseWhere += " AND e.facility_id = $3"
		args = append(args, *facilityID)
	}

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date,
			   lr.half_day, lr.status
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE ` + baseWhere + `
		ORDER BY lr.start_date, lr.employee_id
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate,
			&req.HalfDay, &req.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave requests: %w", err)
	}

	return requests, nil
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}
