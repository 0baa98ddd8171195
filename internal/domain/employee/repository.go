package employee

import "context"

// DeviceIdentity is what a device record offers for matching an employee.
type DeviceIdentity struct {
	Identifier string
	CardID     string
	Name       string
}

type EmployeeRepository interface {
	// GetByID retrieves an employee by ID.
	GetByID(ctx context.Context, id string) (Employee, error)

	// FindByDeviceIdentity matches a canonical device record to an
	// employee within one facility: device identifier first, then card
	// ID, then a case-insensitive first-name prefix. Returns
	// ErrEmployeeNotResolved when nothing matches.
	FindByDeviceIdentity(ctx context.Context, facilityID string, identity DeviceIdentity) (Employee, error)

	// ListActiveByFacility retrieves active employees for a facility.
	ListActiveByFacility(ctx context.Context, facilityID string) ([]Employee, error)

	// UpdateDeviceProfile writes back the device-assigned identifier,
	// card ID and profile image observed during a directory sync. This is
	// the single directory write the sync pipeline performs.
	UpdateDeviceProfile(ctx context.Context, id string, deviceID, cardID, profileImage *string) error
}
