package shift

import "context"

type ShiftRepository interface {
	// GetByID retrieves a shift by ID.
	GetByID(ctx context.Context, id string) (Shift, error)

	// ListByFacility retrieves all active shifts configured for a facility.
	ListByFacility(ctx context.Context, facilityID string) ([]Shift, error)
}
