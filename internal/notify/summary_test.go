package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
)

var at = time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC) // 3/1/2026 8:30 PM ET

func TestBuildSummaryGroupsNonEmpty(t *testing.T) {
	state := models.FormState{
		"court_county": "Franklin",
		"p1_name":      "Alice",
		"p2_name":      "",
		"veh1_make":    "Honda",
		"p1_dob":       "   ",
		"stray_key":    "ignored",
	}
	s := BuildSummary(registry.Intake, state, at)

	if s.P1 != "Alice" || s.P2 != "Unknown" {
		t.Fatalf("names = %q %q", s.P1, s.P2)
	}
	if len(s.Groups) != 3 {
		t.Fatalf("groups = %+v", s.Groups)
	}
	want := []struct{ section, label, value string }{
		{"Court Info", "County", "Franklin"},
		{"Petitioner 1", "P1 Full Name", "Alice"},
		{"Vehicles", "Veh #1 Make", "Honda"},
	}
	for i, w := range want {
		g := s.Groups[i]
		if g.Name != w.section || len(g.Rows) != 1 || g.Rows[0].Label != w.label || g.Rows[0].Value != w.value {
			t.Errorf("group %d = %+v, want %+v", i, g, w)
		}
	}
}

func TestSubjectUsesEasternDate(t *testing.T) {
	s := BuildSummary(registry.Intake, models.FormState{"p1_name": "A", "p2_name": "B"}, at)
	if got := s.Subject(); got != "[Dissolution Intake] A & B - 3/1/2026" {
		t.Fatalf("Subject = %q", got)
	}
}

func TestHTMLEscapesValues(t *testing.T) {
	s := BuildSummary(registry.Intake, models.FormState{"p1_name": "<script>x</script>", "notes_questions": "a & b"}, at)
	html, err := s.HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("value not escaped")
	}
	if !strings.Contains(html, "Questions / Notes") || !strings.Contains(html, "a &amp; b") {
		t.Fatalf("missing row in %s", html)
	}
	if !strings.Contains(html, "3/1/2026, 8:30:00 PM") {
		t.Fatal("missing eastern timestamp")
	}
}

func TestEmptyStateHasNoGroups(t *testing.T) {
	s := BuildSummary(registry.Intake, models.FormState{}, at)
	if len(s.Groups) != 0 {
		t.Fatalf("groups = %v", s.Groups)
	}
	if !strings.Contains(s.Text(), "Unknown & Unknown") {
		t.Fatalf("Text = %q", s.Text())
	}
}

func TestDisabledMailer(t *testing.T) {
	_, err := Disabled{}.Send(context.Background(), Message{})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
