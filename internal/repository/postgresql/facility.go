package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/facility"
	"github.com/attendsync/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type facilityRepository struct {
	db *database.DB
}

const facilityColumns = `
	f.id, f.code, f.name, f.timezone, f.status,
	f.device_api_url, f.user_api_url, f.device_api_key, f.auto_sync,
	f.device_id, f.device_model,
	f.last_sync_time, f.sync_status, f.last_sync_error,
	f.created_at, f.updated_at
`

// GetByID implements facility.FacilityRepository.
func (f *facilityRepository) GetByID(ctx context.Context, id string) (facility.Facility, error) {
	q := GetQuerier(ctx, f.db)

	query := `
		SELECT ` + facilityColumns + `
		FROM facilities f
		WHERE f.id = $1
		LIMIT 1
	`

	fac, err := scanFacility(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return facility.Facility{}, facility.ErrFacilityNotFound
		}
		return facility.Facility{}, fmt.Errorf("failed to get facility: %w", err)
	}

	return fac, nil
}

// ListSyncable implements facility.FacilityRepository.
func (f *facilityRepository) ListSyncable(ctx context.Context) ([]facility.Facility, error) {
	q := GetQuerier(ctx, f.db)

	query := `
		SELECT ` + facilityColumns + `
		FROM facilities f
		WHERE f.status = 'active'
		  AND f.auto_sync = TRUE
		ORDER BY f.code
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list syncable facilities: %w", err)
	}
	defer rows.Close()

	var facilities []facility.Facility
	for rows.Next() {
		fac, err := scanFacility(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan facility: %w", err)
		}
		facilities = append(facilities, fac)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read facilities: %w", err)
	}

	return facilities, nil
}

// UpdateSyncStatus implements facility.FacilityRepository. lastSyncTime only
// advances on success so a failed window is re-fetched next run.
func (f *facilityRepository) UpdateSyncStatus(ctx context.Context, id, status string, errorMessage *string, at time.Time) error {
	q := GetQuerier(ctx, f.db)

	query := `
		UPDATE facilities SET
			sync_status = $1,
			last_sync_error = $2,
			last_sync_time = CASE WHEN $3 = 'success' THEN $4 ELSE last_sync_time END,
			updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, status, errorMessage, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return facility.ErrFacilityNotFound
	}

	return nil
}

// UpdateDeviceInfo implements facility.FacilityRepository.
func (f *facilityRepository) UpdateDeviceInfo(ctx context.Context, id string, deviceID, deviceModel *string) error {
	q := GetQuerier(ctx, f.db)

	query := `
		UPDATE facilities SET
			device_id = COALESCE($1, device_id),
			device_model = COALESCE($2, device_model),
			updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, deviceID, deviceModel, id)
	if err != nil {
		return fmt.Errorf("failed to update device info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return facility.ErrFacilityNotFound
	}

	return nil
}

func scanFacility(row pgx.Row) (facility.Facility, error) {
	var fac facility.Facility
	err := row.Scan(
		&fac.ID, &fac.Code, &fac.Name, &fac.Timezone, &fac.Status,
		&fac.DeviceAPIURL, &fac.UserAPIURL, &fac.DeviceAPIKey, &fac.AutoSync,
		&fac.DeviceID, &fac.DeviceModel,
		&fac.LastSyncTime, &fac.SyncStatus, &fac.LastSyncError,
		&fac.CreatedAt, &fac.UpdatedAt,
	)
	return fac, err
}

func NewFacilityRepository(db *database.DB) facility.FacilityRepository {
	return &facilityRepository{db: db}
}
