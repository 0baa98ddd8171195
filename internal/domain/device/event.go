package device

import (
	"context"
	"encoding/json"
	"time"
)

// RawRecord is one untyped record from a device gateway. Field names drift
// across firmware versions and vendors, so nothing is assumed here.
type RawRecord map[string]any

// Event is a raw device record normalized into the canonical shape the
// pipeline works with.
type Event struct {
	Identifier string
	CardID     string
	Name       string
	Timestamp  time.Time
	RawPayload json.RawMessage
}

// Info is the device metadata a gateway response may carry.
type Info struct {
	DeviceID    string
	DeviceModel string
}

// Batch is the parsed payload of one gateway call.
type Batch struct {
	Records []RawRecord
	Info    Info
}

// Endpoint carries what a gateway call needs from the facility record.
type Endpoint struct {
	URL    string
	APIKey string
}

// Gateway polls a facility's attendance device over HTTP.
type Gateway interface {
	// FetchEvents retrieves punch events recorded in [from, to].
	FetchEvents(ctx context.Context, ep Endpoint, from, to time.Time) (Batch, error)

	// FetchUsers retrieves the device's registered user directory.
	FetchUsers(ctx context.Context, ep Endpoint) (Batch, error)

	// Probe reports whether the endpoint answers at all. Used to skip
	// facilities behind a dead tunnel without burning the full timeout.
	Probe(ctx context.Context, url string) bool
}
