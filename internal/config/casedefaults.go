package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
)

// CaseDefaults holds pre-filled answers per case id. The "*" entry applies to
// every case and is overlaid by the case's own entry.
type CaseDefaults map[string]models.FormState

type caseDefaultsFile struct {
	Cases map[string]map[string]string `yaml:"cases"`
}

// LoadCaseDefaults reads a YAML file of the form
//
//	cases:
//	  smith-2026:
//	    p1_name: Jane Smith
//
// An empty path yields no defaults.
func LoadCaseDefaults(path string) (CaseDefaults, error) {
	if path == "" {
		return CaseDefaults{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case defaults: %w", err)
	}
	return ParseCaseDefaults(raw)
}

// ParseCaseDefaults decodes the YAML document described at LoadCaseDefaults.
func ParseCaseDefaults(raw []byte) (CaseDefaults, error) {
	var f caseDefaultsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse case defaults: %w", err)
	}
	out := make(CaseDefaults, len(f.Cases))
	for id, fields := range f.Cases {
		out[id] = models.FormState(fields)
	}
	return out, nil
}

// For returns the defaults for caseID, never nil.
func (d CaseDefaults) For(caseID string) models.FormState {
	base := models.FormState{}
	if all, ok := d["*"]; ok {
		base = base.Merge(all)
	}
	if own, ok := d[caseID]; ok {
		base = base.Merge(own)
	}
	return base
}
