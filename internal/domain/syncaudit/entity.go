package syncaudit

import (
	"encoding/json"
	"time"
)

// Pipeline stages a failure can be attributed to.
const (
	StageNormalize = "normalize"
	StageResolve   = "resolve"
	StageClassify  = "classify"
	StagePersist   = "persist"
)

// Failure is one dropped device record, kept for operator visibility. End
// users never see these directly.
type Failure struct {
	ID         string          `json:"id"`
	FacilityID string          `json:"facility_id"`
	Stage      string          `json:"stage"`
	Reason     string          `json:"reason"`
	RawPayload json.RawMessage `json:"raw_payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
