package models

import (
	"encoding/json"
	"time"
)

// Submission is an immutable snapshot of a completed FormState.
type Submission struct {
	ID          string
	SubmittedAt time.Time
	// Fields is the stored record, including the _submittedAt key.
	Fields FormState
}

// NewSubmission builds the snapshot for state submitted at t.
func NewSubmission(id string, state FormState, t time.Time) Submission {
	return Submission{
		ID:          id,
		SubmittedAt: t,
		Fields:      state.Set(SubmittedAtKey, FormatTime(t)),
	}
}

// SubmissionFromRecord rebuilds a Submission from its stored record. An
// unparseable _submittedAt leaves SubmittedAt zero so it sorts last.
func SubmissionFromRecord(id string, record FormState) Submission {
	sub := Submission{ID: id, Fields: record}
	if t, err := ParseTime(record.Get(SubmittedAtKey)); err == nil {
		sub.SubmittedAt = t
	}
	return sub
}

// Flatten returns the fields with the id added under "id".
func (s Submission) Flatten() map[string]string {
	out := make(map[string]string, len(s.Fields)+1)
	for k, v := range s.Fields {
		out[k] = v
	}
	out["id"] = s.ID
	return out
}

// MarshalJSON renders the admin shape {id, ...fields}.
func (s Submission) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Flatten())
}
