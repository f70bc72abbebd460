package registry

import (
	"strings"
	"testing"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
)

func TestLabelOf(t *testing.T) {
	tests := []struct{ key, want string }{
		{"p1_name", "P1 Full Name"},
		{"veh2_vin", "Veh #2 VIN"},
		{"debt_p2_3_acct4", "P2 Debt #3 Acct#"},
		{"acct_p1_2_inst", "P1 Acct #2 Institution"},
		{"not_a_field", "not_a_field"},
		{"_submittedAt", "_submittedAt"},
	}
	for _, tt := range tests {
		if got := Intake.LabelOf(tt.key); got != tt.want {
			t.Errorf("LabelOf(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestSectionsOrder(t *testing.T) {
	want := []string{
		"Court Info", "Petitioner 1", "Petitioner 2", "Marriage Info", "Real Estate",
		"Vehicles", "Household Goods", "Financial Accounts", "Retirement / Pensions",
		"Debts", "Spousal Support", "Monthly Expenses", "Name Change", "Additional Matters",
	}
	got := Intake.Sections()
	if len(got) != len(want) || Intake.Len() != len(want) {
		t.Fatalf("got %d sections, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Name != want[i] {
			t.Errorf("section %d = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestTemplatedKeysRegistered(t *testing.T) {
	for _, key := range []string{
		"veh1_year", "veh3_value", "re2_gets", "acct_p2_3_names",
		"ret_p1_2_amount", "debt_p1_1_creditor", "p2_bonus_2026",
	} {
		if !Intake.Known(key) {
			t.Errorf("%s not registered", key)
		}
	}
	if Intake.Known("veh4_year") {
		t.Error("veh4_year is outside the repeat range")
	}
}

func TestSectionsReturnsCopy(t *testing.T) {
	s := Intake.Sections()
	s[0].Keys[0] = "mutated"
	if Intake.Sections()[0].Keys[0] != "court_county" {
		t.Fatal("Sections exposed internal slice")
	}
}

func keysOf(fields []Field) map[string]bool {
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f.Key] = true
	}
	return out
}

func TestVehicleVisibility(t *testing.T) {
	const step = 5
	if Intake.Section(step).Name != "Vehicles" {
		t.Fatalf("step %d is %q", step, Intake.Section(step).Name)
	}

	hidden := keysOf(Intake.VisibleFields(step, models.FormState{}))
	if !hidden["has_vehicles"] || hidden["veh1_year"] {
		t.Fatalf("unset selector should show only the selector, got %v", hidden)
	}

	shown := keysOf(Intake.VisibleFields(step, models.FormState{"has_vehicles": "Yes"}))
	for _, k := range []string{"veh1_year", "veh2_make", "veh3_vin", "veh_other"} {
		if !shown[k] {
			t.Errorf("%s hidden with has_vehicles=Yes", k)
		}
	}

	state := models.FormState{"has_vehicles": "No", "veh1_year": "2019"}
	if keysOf(Intake.VisibleFields(step, state))["veh1_year"] {
		t.Fatal("veh1_year visible with has_vehicles=No")
	}
	if state.Get("veh1_year") != "2019" {
		t.Fatal("hidden values must stay in state")
	}
}

func TestVisibleFieldsOutOfRange(t *testing.T) {
	if got := Intake.VisibleFields(99, nil); got != nil {
		t.Fatalf("got %v", got)
	}
	if got := Intake.VisibleFields(-1, nil); got != nil {
		t.Fatalf("got %v", got)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		sections []Section
		wantErr  string
	}{
		{
			"duplicate key",
			[]Section{{Name: "A", Groups: []Group{{Fields: []Field{{Key: "x"}, {Key: "x"}}}}}},
			"duplicate",
		},
		{
			"bad condition",
			[]Section{{Name: "A", Groups: []Group{{When: `x ==`, Fields: []Field{{Key: "x"}}}}}},
			"section",
		},
		{
			"empty key",
			[]Section{{Name: "A", Groups: []Group{{Fields: []Field{{Label: "no key"}}}}}},
			"without key",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.sections)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustNew([]Section{{Name: "A", Groups: []Group{{When: `(`, Fields: []Field{{Key: "k"}}}}}})
}
