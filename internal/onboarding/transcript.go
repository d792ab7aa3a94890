package onboarding

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Entry is one turn of the onboarding transcript, stored as a JSON
// array on the session row.
type Entry struct {
	Role string    `json:"role"` // "agent" or "operator"
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

const (
	RoleAgent    = "agent"
	RoleOperator = "operator"
)

// ParseTranscript decodes the stored transcript column. A nil or empty
// column is an empty transcript, not an error.
func ParseTranscript(raw datatypes.JSON) ([]Entry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	return entries, nil
}

// AppendEntry adds a turn to the transcript and returns the re-encoded
// column value.
func AppendEntry(raw datatypes.JSON, role, text string, at time.Time) (datatypes.JSON, error) {
	entries, err := ParseTranscript(raw)
	if err != nil {
		return nil, err
	}
	entries = append(entries, Entry{Role: role, Text: text, At: at.UTC()})
	out, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}
	return datatypes.JSON(out), nil
}
