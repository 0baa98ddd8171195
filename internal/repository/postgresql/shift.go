package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendsync/attendance-backend-go/internal/domain/shift"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

const shiftColumns = `
	s.id, s.facility_id, s.name, s.code,
	s.start_time, s.end_time, s.working_hours,
	s.grace_check_in_mins, s.grace_check_out_mins,
	s.break_tracking_enabled, s.default_break_minutes, s.breaks,
	s.is_default, s.status, s.created_at, s.updated_at
`

// GetByID implements shift.ShiftRepository.
func (s *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.id = $1
		LIMIT 1
	`

	sh, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return sh, nil
}

// ListByFacility implements shift.ShiftRepository.
func (s *shiftRepository) ListByFacility(ctx context.Context, facilityID string) ([]shift.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.facility_id = $1
		  AND s.status = 'active'
		ORDER BY s.is_default DESC, s.code
	`

	rows, err := q.Query(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shifts: %w", err)
	}

	return shifts, nil
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var sh shift.Shift
	err := row.Scan(
		&sh.ID, &sh.FacilityID, &sh.Name, &sh.Code,
		&sh.StartTime, &sh.EndTime, &sh.WorkingHours,
		&sh.GraceCheckInMins, &sh.GraceCheckOutMins,
		&sh.BreakTrackingEnabled, &sh.DefaultBreakMinutes, &sh.Breaks,
		&sh.IsDefault, &sh.Status, &sh.CreatedAt, &sh.UpdatedAt,
	)
	return sh, err
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}
