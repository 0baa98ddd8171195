package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendsync/attendance-backend-go/internal/domain/employee"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

const employeeColumns = `
	e.id, e.facility_id, e.shift_id, e.staff_id,
	e.first_name, e.last_name, e.email,
	e.device_id, e.card_id, e.profile_image,
	e.status, e.created_at, e.updated_at
`

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.id = $1
		LIMIT 1
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// FindByDeviceIdentity implements employee.EmployeeRepository. Matching is
// tiered: device identifier first, then card ID, then a case-insensitive
// first-name prefix, all scoped to one facility.
func (e *employeeRepository) FindByDeviceIdentity(ctx context.Context, facilityID string, identity employee.DeviceIdentity) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if identity.Identifier != "" {
		query := `
			SELECT ` + employeeColumns + `
			FROM employees e
			WHERE e.facility_id = $1 AND e.device_id = $2
			LIMIT 1
		`
		emp, err := scanEmployee(q.QueryRow(ctx, query, facilityID, identity.Identifier))
		if err == nil {
			return emp, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, fmt.Errorf("failed to match by device id: %w", err)
		}
	}

	if identity.CardID != "" {
		query := `
			SELECT ` + employeeColumns + `
			FROM employees e
			WHERE e.facility_id = $1 AND e.card_id = $2
			LIMIT 1
		`
		emp, err := scanEmployee(q.QueryRow(ctx, query, facilityID, identity.CardID))
		if err == nil {
			return emp, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, fmt.Errorf("failed to match by card id: %w", err)
		}
	}

	if identity.Name != "" && identity.Name != "Unknown" {
		query := `
			SELECT ` + employeeColumns + `
			FROM employees e
			WHERE e.facility_id = $1
			  AND e.status = 'active'
			  AND (e.first_name || ' ' || e.last_name) ILIKE $2
			ORDER BY e.first_name, e.last_name
			LIMIT 1
		`
		emp, err := scanEmployee(q.QueryRow(ctx, query, facilityID, identity.Name+"%"))
		if err == nil {
			return emp, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, fmt.Errorf("failed to match by name: %w", err)
		}
	}

	return employee.Employee{}, employee.ErrEmployeeNotResolved
}

// ListActiveByFacility implements employee.EmployeeRepository.
func (e *employeeRepository) ListActiveByFacility(ctx context.Context, facilityID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.facility_id = $1
		  AND e.status = 'active'
		ORDER BY e.first_name, e.last_name
	`

	rows, err := q.Query(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}

// UpdateDeviceProfile implements employee.EmployeeRepository. Only non-nil
// fields overwrite; COALESCE keeps the rest untouched.
func (e *employeeRepository) UpdateDeviceProfile(ctx context.Context, id string, deviceID, cardID, profileImage *string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees SET
			device_id = COALESCE($1, device_id),
			card_id = COALESCE($2, card_id),
			profile_image = COALESCE($3, profile_image),
			updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, deviceID, cardID, profileImage, id)
	if err != nil {
		return fmt.Errorf("failed to update device profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.FacilityID, &emp.ShiftID, &emp.StaffID,
		&emp.FirstName, &emp.LastName, &emp.Email,
		&emp.DeviceID, &emp.CardID, &emp.ProfileImage,
		&emp.Status, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}
