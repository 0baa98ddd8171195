package facility

import (
	"context"
	"time"
)

type FacilityRepository interface {
	// GetByID retrieves a facility by ID.
	GetByID(ctx context.Context, id string) (Facility, error)

	// ListSyncable retrieves active facilities with auto-sync enabled.
	ListSyncable(ctx context.Context) ([]Facility, error)

	// UpdateSyncStatus records the outcome of a sync attempt and stamps
	// lastSyncTime. errorMessage is cleared on success.
	UpdateSyncStatus(ctx context.Context, id, status string, errorMessage *string, at time.Time) error

	// UpdateDeviceInfo stores the device ID and model auto-captured from
	// a gateway response.
	UpdateDeviceInfo(ctx context.Context, id string, deviceID, deviceModel *string) error
}
