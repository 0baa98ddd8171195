package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	// ListApprovedInRange retrieves approved leave requests overlapping
	// [from, to], optionally scoped to one facility.
	ListApprovedInRange(ctx context.Context, facilityID *string, from, to time.Time) ([]Request, error)
}
