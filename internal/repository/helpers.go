package repository

import (
	"encoding/json"
	"fmt"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
)

// encodeState renders a record value. FormState always marshals.
func encodeState(state models.FormState) []byte {
	if state == nil {
		state = models.FormState{}
	}
	b, _ := json.Marshal(state)
	return b
}

// decodeState reads a record value. Non-string values written by other
// clients are coerced rather than rejected.
func decodeState(raw []byte) (models.FormState, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if doc == nil {
		return models.FormState{}, nil
	}
	return models.FromAny(doc), nil
}
