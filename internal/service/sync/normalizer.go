package sync

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/device"
)

// Device firmware is not under our control and field names drift across
// versions and vendors, so every canonical attribute is extracted by walking
// an ordered candidate list. Supporting a new firmware variant means adding
// a name here, not new branching.
var (
	identifierFields = []string{"personUUID", "PersonUUID", "personId", "PersonId", "deviceId", "IdCard", "id"}
	cardFields       = []string{"RFIDCard", "rfidCard", "IdCard", "idCard", "cardId", "cardNumber"}
	nameFields       = []string{"Name", "name", "personName", "PersonName", "userName"}
	timestampFields  = []string{"Time", "time", "timestamp", "checkTime", "datetime"}
	imageFields      = []string{"Picture", "picture", "faceUrl", "FaceUrl", "photo", "image"}
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// NormalizationError marks a device record that could not be coerced into
// the canonical event shape. The record is dropped; the batch continues.
type NormalizationError struct {
	Reason string
}

func (e *NormalizationError) Error() string {
	return "normalize device record: " + e.Reason
}

// NormalizeRecord converts one raw device record into the canonical event.
// Timestamps are parsed as wall-clock values in the facility's timezone
// unless the device already sent an explicit offset.
func NormalizeRecord(record device.RawRecord, loc *time.Location) (device.Event, error) {
	identifier := firstString(record, identifierFields)
	cardID := firstString(record, cardFields)

	if identifier == "" && cardID == "" {
		return device.Event{}, &NormalizationError{Reason: "no identifier or card id present"}
	}

	rawTimestamp := firstString(record, timestampFields)
	if rawTimestamp == "" {
		return device.Event{}, &NormalizationError{Reason: "no timestamp present"}
	}

	timestamp, err := parseTimestamp(rawTimestamp, loc)
	if err != nil {
		return device.Event{}, &NormalizationError{Reason: fmt.Sprintf("unparseable timestamp %q", rawTimestamp)}
	}

	name := firstString(record, nameFields)
	if name == "" {
		name = "Unknown"
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return device.Event{}, &NormalizationError{Reason: "record is not serializable"}
	}

	return device.Event{
		Identifier: identifier,
		CardID:     cardID,
		Name:       name,
		Timestamp:  timestamp,
		RawPayload: raw,
	}, nil
}

// DirectoryEntry is one normalized row from the device's user directory.
type DirectoryEntry struct {
	Identifier   string
	CardID       string
	Name         string
	ProfileImage string
}

// NormalizeUserRecord extracts the identity fields of a directory record.
// Unlike punch events, directory rows carry no timestamp.
func NormalizeUserRecord(record device.RawRecord) (DirectoryEntry, error) {
	entry := DirectoryEntry{
		Identifier:   firstString(record, identifierFields),
		CardID:       firstString(record, cardFields),
		Name:         firstString(record, nameFields),
		ProfileImage: firstString(record, imageFields),
	}
	if entry.Identifier == "" && entry.CardID == "" && entry.Name == "" {
		return DirectoryEntry{}, &NormalizationError{Reason: "directory record carries no identity fields"}
	}
	return entry, nil
}

// firstString walks the candidate field names in order and returns the
// first non-empty value, stringified. "0" card ids are placeholder values
// some devices emit and are treated as absent.
func firstString(record device.RawRecord, candidates []string) string {
	for _, field := range candidates {
		value, ok := record[field]
		if !ok || value == nil {
			continue
		}
		s := stringify(value)
		if s == "" || s == "0" {
			continue
		}
		return s
	}
	return ""
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// JSON numbers decode as float64; device ids are integral.
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if layout == time.RFC3339 {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, nil
			}
			continue
		}
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}

	// Some devices send epoch seconds.
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0), nil
	}

	return time.Time{}, fmt.Errorf("no layout matched %q", raw)
}
