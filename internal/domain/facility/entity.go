package facility

import "time"

// Sync statuses recorded on a facility after each sync attempt.
const (
	SyncPending    = "pending"
	SyncInProgress = "in-progress"
	SyncSuccess    = "success"
	SyncFailed     = "failed"
	SyncSkipped    = "skipped"
)

type Facility struct {
	ID            string
	Code          string
	Name          string
	Timezone      string
	Status        string
	DeviceAPIURL  string
	UserAPIURL    *string
	DeviceAPIKey  *string
	AutoSync      bool
	DeviceID      *string
	DeviceModel   *string
	LastSyncTime  *time.Time
	SyncStatus    string
	LastSyncError *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Location resolves the facility's configured timezone, falling back to UTC
// when the name is missing or invalid.
func (f Facility) Location() *time.Location {
	if f.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
