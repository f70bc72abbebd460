// Package notify renders the submission summary and sends it by email.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
)

// Eastern is the zone the summary dates are shown in.
var Eastern = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type Row struct {
	Label string
	Value string
}

type Group struct {
	Name string
	Rows []Row
}

// Summary is a submission grouped by section with empty fields dropped.
type Summary struct {
	P1          string
	P2          string
	SubmittedAt time.Time
	Groups      []Group
}

// BuildSummary walks reg's sections in order. Unregistered keys are left out.
func BuildSummary(reg *registry.Registry, state models.FormState, at time.Time) Summary {
	s := Summary{
		P1:          orUnknown(state.Get("p1_name")),
		P2:          orUnknown(state.Get("p2_name")),
		SubmittedAt: at,
	}
	for _, sec := range reg.Sections() {
		g := Group{Name: sec.Name}
		for _, key := range sec.Keys {
			v := state.Get(key)
			if strings.TrimSpace(v) == "" {
				continue
			}
			g.Rows = append(g.Rows, Row{Label: reg.LabelOf(key), Value: v})
		}
		if len(g.Rows) > 0 {
			s.Groups = append(s.Groups, g)
		}
	}
	return s
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// Subject is "[Dissolution Intake] P1 & P2 - M/D/YYYY".
func (s Summary) Subject() string {
	return fmt.Sprintf("[Dissolution Intake] %s & %s - %s", s.P1, s.P2, s.SubmittedAt.In(Eastern).Format("1/2/2006"))
}

func (s Summary) stamp() string {
	return s.SubmittedAt.In(Eastern).Format("1/2/2006, 3:04:05 PM")
}

var page = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>New Intake Submission</title></head>
<body style="font-family:Arial,sans-serif;max-width:800px;margin:0 auto;padding:20px;background:#f9fafb;color:#333">
  <div style="background:#1e3a5f;color:#fff;padding:20px 24px;border-radius:8px 8px 0 0">
    <h1 style="margin:0;font-size:20px">New Ohio Dissolution Intake</h1>
    <p style="margin:4px 0 0;opacity:.85;font-size:14px">{{.P1}} &amp; {{.P2}} - Submitted {{.Stamp}} (ET)</p>
  </div>
  <div style="background:#fff;padding:24px;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 8px 8px">
{{- range .Groups}}
    <h3 style="margin:24px 0 8px;font-size:14px;color:#1e3a5f;border-bottom:2px solid #1e3a5f;padding-bottom:6px">{{.Name}}</h3>
    <table style="width:100%;border-collapse:collapse;background:#fff;border:1px solid #e5e7eb">
{{- range .Rows}}
      <tr>
        <td style="padding:6px 12px;border-bottom:1px solid #f0f0f0;color:#555;font-size:13px;width:40%;white-space:nowrap">{{.Label}}</td>
        <td style="padding:6px 12px;border-bottom:1px solid #f0f0f0;font-size:13px;word-break:break-word">{{.Value}}</td>
      </tr>
{{- end}}
    </table>
{{- end}}
    <p style="margin-top:32px;font-size:12px;color:#9ca3af;border-top:1px solid #f0f0f0;padding-top:16px">
      This submission was received via the Ohio Dissolution Intake Form. All information is confidential.
    </p>
  </div>
</body>
</html>
`))

// HTML renders the email body. Values are escaped.
func (s Summary) HTML() (string, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Summary
		Stamp string
	}{s, s.stamp()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Text renders a plain-text alternative.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "New Ohio Dissolution Intake\n%s & %s - Submitted %s (ET)\n", s.P1, s.P2, s.stamp())
	for _, g := range s.Groups {
		fmt.Fprintf(&b, "\n== %s ==\n", g.Name)
		for _, r := range g.Rows {
			fmt.Fprintf(&b, "%s: %s\n", r.Label, r.Value)
		}
	}
	return b.String()
}
