// Package export renders submissions as downloadable files.
package export

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
)

// JSON is the submission as an indented object {id, ...fields}.
func JSON(sub models.Submission) ([]byte, error) {
	return json.MarshalIndent(sub.Flatten(), "", "  ")
}

// CSV is a header row and one row for sub.
func CSV(reg *registry.Registry, sub models.Submission) []byte {
	return CSVAll(reg, []models.Submission{sub})
}

// CSVAll writes one row per submission over the union of their keys. Missing
// values are blank. Every value is quoted with embedded quotes doubled.
func CSVAll(reg *registry.Registry, subs []models.Submission) []byte {
	rows := make([]map[string]string, len(subs))
	for i, s := range subs {
		rows[i] = s.Flatten()
	}
	cols := Columns(reg, rows)

	var b strings.Builder
	for i, c := range cols {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(header(c))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		for i, c := range cols {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(row[c]))
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Columns orders the union of keys: id, registered keys in registry order,
// unknown keys alphabetically, then the metadata keys.
func Columns(reg *registry.Registry, rows []map[string]string) []string {
	seen := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}

	var cols []string
	take := func(k string) {
		if seen[k] {
			cols = append(cols, k)
			delete(seen, k)
		}
	}
	take("id")
	for _, sec := range reg.Sections() {
		for _, k := range sec.Keys {
			take(k)
		}
	}
	var meta, rest []string
	for k := range seen {
		if strings.HasPrefix(k, "_") {
			meta = append(meta, k)
		} else {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	sort.Strings(meta)
	return append(append(cols, rest...), meta...)
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func header(k string) string {
	if strings.ContainsAny(k, ",\"\r\n") {
		return quote(k)
	}
	return k
}
