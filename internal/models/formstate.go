package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Metadata keys injected by the service. They never come from the registry.
const (
	SavedAtKey     = "_saved_at"
	SubmittedAtKey = "_submittedAt"
)

// TimeLayout is ISO-8601 with millisecond precision, as browsers emit it.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormState is a case's answers: field key to value. "" means unanswered.
// Values are treated as immutable snapshots; Set returns a new map.
type FormState map[string]string

// Get returns the value for key, or "" when unset. Safe on a nil FormState.
func (s FormState) Get(key string) string {
	return s[key]
}

// Set returns a copy of s with key replaced. s itself is not modified.
func (s FormState) Set(key, value string) FormState {
	next := make(FormState, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[key] = value
	return next
}

// Clone returns an independent copy.
func (s FormState) Clone() FormState {
	out := make(FormState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge returns s overlaid by over: every key present in over wins, keys only
// in s keep their value.
func (s FormState) Merge(over FormState) FormState {
	out := s.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// NonEmpty returns the keys whose value is not blank, sorted.
func (s FormState) NonEmpty() []string {
	keys := make([]string, 0, len(s))
	for k, v := range s {
		if strings.TrimSpace(v) != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Keys returns every key, sorted.
func (s FormState) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WithoutMeta drops the underscore-prefixed metadata keys the service adds.
func (s FormState) WithoutMeta() FormState {
	out := s.Clone()
	delete(out, SavedAtKey)
	delete(out, SubmittedAtKey)
	return out
}

// FromAny coerces a decoded JSON object into a FormState. Strings pass
// through, numbers and booleans are formatted, null becomes "", and nested
// values are kept as their JSON text.
func FromAny(m map[string]any) FormState {
	out := make(FormState, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		case bool:
			out[k] = strconv.FormatBool(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			out[k] = t.String()
		default:
			b, err := json.Marshal(t)
			if err != nil {
				continue
			}
			out[k] = string(b)
		}
	}
	return out
}

// FormatTime renders t in TimeLayout, UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts TimeLayout or any RFC 3339 timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
