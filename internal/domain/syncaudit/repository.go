package syncaudit

import "context"

type FailureRepository interface {
	// Record appends a failure entry. Recording is best-effort; callers
	// log and continue when it errors.
	Record(ctx context.Context, failure Failure) error

	// ListByFacility retrieves recent failures for a facility, newest
	// first.
	ListByFacility(ctx context.Context, facilityID string, limit int) ([]Failure, error)
}
