package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
)

func newController(b *fakeBackend, opts Options) (*Controller, *fakeClock) {
	clk := &fakeClock{}
	opts.Scheduler = clk.Schedule
	return New("smith", b, opts), clk
}

func TestStartMergesStoredOverDefaults(t *testing.T) {
	b := &fakeBackend{
		found: true,
		stored: models.FormState{
			"p1_name":         "Stored Name",
			"court_county":    "",
			models.SavedAtKey: "2026-03-01T00:00:00.000Z",
			"marriage_date":   "2010-06-05",
		},
	}
	c, _ := newController(b, Options{Defaults: models.FormState{
		"court_county": "Franklin",
		"p2_name":      "Default Two",
		"p1_name":      "Default One",
	}})
	if c.Status() != StatusLoading {
		t.Fatalf("initial status = %s", c.Status())
	}

	c.Start(context.Background())

	if c.Status() != StatusSaved {
		t.Fatalf("status = %s, want saved", c.Status())
	}
	st := c.State()
	if st.Get("p1_name") != "Stored Name" || st.Get("p2_name") != "Default Two" {
		t.Fatalf("merge wrong: %v", st)
	}
	if v, ok := st["court_county"]; !ok || v != "" {
		t.Fatalf("stored blank should win over default, got %q", v)
	}
	if _, ok := st[models.SavedAtKey]; ok {
		t.Fatal("_saved_at leaked into state")
	}
	if c.SavedAt() != "2026-03-01T00:00:00.000Z" {
		t.Fatalf("SavedAt = %q", c.SavedAt())
	}
}

func TestStartNotFoundOrFailed(t *testing.T) {
	for name, b := range map[string]*fakeBackend{
		"not found": {},
		"failed":    {loadErr: errors.New("network down")},
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newController(b, Options{Defaults: models.FormState{"court_county": "Franklin"}})
			c.Start(context.Background())
			if c.Status() != StatusUnsaved {
				t.Fatalf("status = %s", c.Status())
			}
			if c.Get("court_county") != "Franklin" {
				t.Fatal("defaults lost")
			}
		})
	}
}

func TestEditsCoalesceIntoOneSave(t *testing.T) {
	b := &fakeBackend{}
	c, clk := newController(b, Options{Delay: 2 * time.Second})

	for _, v := range []string{"A", "An", "Ann", "Anna", "Annabel"} {
		c.Edit("p1_name", v)
	}
	if c.Status() != StatusUnsaved {
		t.Fatalf("status = %s", c.Status())
	}
	if clk.Pending() != 1 {
		t.Fatalf("pending timers = %d, want 1", clk.Pending())
	}
	if clk.delays[0] != 2*time.Second {
		t.Fatalf("delay = %s", clk.delays[0])
	}

	clk.Fire()

	if b.saveCount() != 1 {
		t.Fatalf("saves = %d, want 1", b.saveCount())
	}
	if got := b.lastSave().Get("p1_name"); got != "Annabel" {
		t.Fatalf("saved %q, want final value", got)
	}
	if c.Status() != StatusSaved || c.SavedAt() == "" {
		t.Fatalf("status = %s savedAt = %q", c.Status(), c.SavedAt())
	}
}

func TestSpacedEditsSaveEach(t *testing.T) {
	b := &fakeBackend{}
	c, clk := newController(b, Options{})
	for i, v := range []string{"1", "2", "3"} {
		c.Edit("court_case_no", v)
		clk.Fire()
		if b.saveCount() != i+1 {
			t.Fatalf("after edit %d saves = %d", i+1, b.saveCount())
		}
	}
	if clk.delays[0] != DefaultDelay {
		t.Fatalf("default delay = %s", clk.delays[0])
	}
}

func TestSaveFailureLeavesUnsaved(t *testing.T) {
	b := &fakeBackend{saveErr: errors.New("store down")}
	c, clk := newController(b, Options{})
	c.Edit("p1_name", "A")
	clk.Fire()
	if c.Status() != StatusUnsaved {
		t.Fatalf("status = %s", c.Status())
	}
	if clk.Pending() != 0 {
		t.Fatal("failed save must not schedule a retry")
	}
}

func TestStatusSavingWhileInFlight(t *testing.T) {
	b := &fakeBackend{gate: make(chan saveCall)}
	c, clk := newController(b, Options{})
	c.Edit("p1_name", "A")
	done := clk.FireAsync()

	call := <-b.gate
	if c.Status() != StatusSaving {
		t.Fatalf("status = %s, want saving", c.Status())
	}
	call.reply <- saveReply{at: "t1"}
	<-done
	if c.Status() != StatusSaved {
		t.Fatalf("status = %s", c.Status())
	}
}

func TestEditDuringSaveIsNotReportedSaved(t *testing.T) {
	b := &fakeBackend{gate: make(chan saveCall)}
	c, clk := newController(b, Options{})
	c.Edit("p1_name", "A")
	done := clk.FireAsync()
	call := <-b.gate

	c.Edit("p1_name", "AB")
	call.reply <- saveReply{at: "t1"}
	<-done

	if c.Status() != StatusUnsaved {
		t.Fatalf("status = %s, an edit after the snapshot is not saved", c.Status())
	}
	if clk.Pending() != 1 {
		t.Fatalf("the later edit should still have a pending save")
	}
}

func TestOutOfOrderResponses(t *testing.T) {
	tests := []struct {
		name        string
		first       saveReply
		second      saveReply
		want        Status
		wantSavedAt string
	}{
		{"late success after newer success", saveReply{at: "t1"}, saveReply{at: "t2"}, StatusSaved, "t2"},
		{"late failure after newer success", saveReply{err: errors.New("timeout")}, saveReply{at: "t2"}, StatusSaved, "t2"},
		{"late success after newer failure", saveReply{at: "t1"}, saveReply{err: errors.New("503")}, StatusUnsaved, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{gate: make(chan saveCall)}
			c, clk := newController(b, Options{})

			c.Edit("p1_name", "A")
			done1 := clk.FireAsync()
			call1 := <-b.gate

			c.Edit("p1_name", "AB")
			done2 := clk.FireAsync()
			call2 := <-b.gate
			if call2.state.Get("p1_name") != "AB" {
				t.Fatalf("second save snapshot = %v", call2.state)
			}

			call2.reply <- tt.second
			<-done2
			call1.reply <- tt.first
			<-done1

			if c.Status() != tt.want {
				t.Fatalf("status = %s, want %s", c.Status(), tt.want)
			}
			if c.SavedAt() != tt.wantSavedAt {
				t.Fatalf("savedAt = %q, want %q", c.SavedAt(), tt.wantSavedAt)
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	b := &fakeBackend{}
	c, clk := newController(b, Options{})
	n := c.Steps()
	if n != registry.Intake.Len() || n != 14 {
		t.Fatalf("steps = %d", n)
	}

	c.Back()
	if c.Step() != 0 {
		t.Fatal("Back at 0 should be a no-op")
	}
	for i := 0; i < n+3; i++ {
		c.Next()
	}
	if c.Step() != n-1 {
		t.Fatalf("Next should clamp at %d, got %d", n-1, c.Step())
	}
	c.JumpTo(3)
	if c.Step() != 3 {
		t.Fatalf("JumpTo(3) -> %d", c.Step())
	}
	c.JumpTo(-1)
	c.JumpTo(n)
	if c.Step() != 3 {
		t.Fatalf("out-of-range jumps should be ignored, step %d", c.Step())
	}
	if clk.Pending() != 0 || len(c.State()) != 0 {
		t.Fatal("navigation must not touch state or schedule saves")
	}
}

func TestAdvisoryMarkers(t *testing.T) {
	c, _ := newController(&fakeBackend{}, Options{Defaults: models.FormState{"court_county": "Franklin"}})

	if c.BlankCount() != 4 {
		t.Fatalf("court step blanks = %d, want 4", c.BlankCount())
	}
	if c.NeedsInfo("court_county") || !c.NeedsInfo("court_judge") {
		t.Fatal("NeedsInfo wrong")
	}
	c.Edit("court_judge", "   ")
	if !c.NeedsInfo("court_judge") {
		t.Fatal("whitespace should still need info")
	}

	c.JumpTo(4)
	if got := len(c.VisibleFields()); got != 1 {
		t.Fatalf("hidden real estate fields = %d", got)
	}
	c.Edit("has_realestate", "Yes")
	if got := len(c.VisibleFields()); got != 14 {
		t.Fatalf("revealed real estate fields = %d", got)
	}

	// Blank fields never block moving on.
	c.Next()
	if c.Step() != 5 {
		t.Fatalf("step = %d", c.Step())
	}
}

func TestSubmitOnlyFromLastStep(t *testing.T) {
	b := &fakeBackend{}
	c, _ := newController(b, Options{})
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrNotLastStep) {
		t.Fatalf("err = %v", err)
	}
	if len(b.tokens) != 0 {
		t.Fatal("backend called from a middle step")
	}
}

func TestSubmitRetryReusesToken(t *testing.T) {
	b := &fakeBackend{submitErr: errors.New("502")}
	c, clk := newController(b, Options{})
	c.Edit("p1_name", "Ann")
	c.JumpTo(c.Steps() - 1)

	if _, err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if done, _ := c.Submitted(); done || c.Step() != c.Steps()-1 {
		t.Fatal("failed submit must stay on the last step")
	}

	b.submitErr = nil
	id, err := c.Submit(context.Background())
	if err != nil || id != "submission_1775044800000" {
		t.Fatalf("Submit = %q, %v", id, err)
	}
	if len(b.tokens) != 2 || b.tokens[0] == "" || b.tokens[0] != b.tokens[1] {
		t.Fatalf("tokens = %v", b.tokens)
	}
	if b.submitState[1].Get("p1_name") != "Ann" {
		t.Fatal("submit should carry the full state")
	}
	if clk.Pending() != 0 {
		t.Fatal("pending autosave should be cancelled after submit")
	}

	done, gotID := c.Submitted()
	if !done || gotID != id {
		t.Fatalf("Submitted = %v %q", done, gotID)
	}
	c.Edit("p1_name", "Changed")
	c.Back()
	if c.Get("p1_name") != "Ann" || c.Step() != c.Steps()-1 {
		t.Fatal("submitted wizard must be terminal")
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrSubmitted) {
		t.Fatalf("second submit err = %v", err)
	}
}

func TestFlushAndClose(t *testing.T) {
	b := &fakeBackend{}
	c, clk := newController(b, Options{})

	c.Flush(context.Background())
	if b.saveCount() != 0 {
		t.Fatal("Flush with nothing pending should not save")
	}
	c.Edit("p1_name", "A")
	c.Flush(context.Background())
	if b.saveCount() != 1 || c.Status() != StatusSaved || clk.Pending() != 0 {
		t.Fatalf("flush: saves=%d status=%s pending=%d", b.saveCount(), c.Status(), clk.Pending())
	}

	c.Edit("p1_name", "B")
	c.Close()
	clk.Fire()
	if b.saveCount() != 1 {
		t.Fatal("Close should cancel the pending save")
	}
}
