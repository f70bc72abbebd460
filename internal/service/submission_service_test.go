package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/repository"
)

var fixed = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func newSubmission(store *flakyStore, mailer *fakeMailer) (*SubmissionService, *AdminService) {
	repo := repository.NewSubmissionRepo(store)
	s := NewSubmissionService(repo, registry.Intake, mailer,
		MailConfig{From: "from@example.com", To: []string{"to@example.com"}}, zerolog.Nop())
	s.now = func() time.Time { return fixed }
	return s, NewAdminService(repo, zerolog.Nop())
}

func TestSubmitPersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	s, admin := newSubmission(newFlaky(), mailer)

	res, err := s.Submit(ctx, models.FormState{"p1_name": "A", "p2_name": "B", "court_county": "Lucas"}, "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.ID != "submission_1775044800000" {
		t.Fatalf("id = %q", res.ID)
	}
	if !res.Persist.OK || !res.Notify.OK {
		t.Fatalf("side effects = %+v %+v", res.Persist, res.Notify)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if !strings.HasPrefix(msg.Subject, "[Dissolution Intake] A & B") || msg.To[0] != "to@example.com" {
		t.Fatalf("message = %+v", msg)
	}
	if !strings.Contains(msg.HTML, "Lucas") {
		t.Fatal("summary missing a field")
	}

	got, err := admin.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Fields.Get("p1_name") != "A" || got.Fields.Get(models.SubmittedAtKey) != "2026-04-01T12:00:00.000Z" {
		t.Fatalf("stored = %v", got.Fields)
	}
}

func TestSubmitEmptyState(t *testing.T) {
	ctx := context.Background()
	s, admin := newSubmission(newFlaky(), &fakeMailer{})

	res, err := s.Submit(ctx, models.FormState{}, "")
	if err != nil || res.ID == "" {
		t.Fatalf("Submit = %+v, %v", res, err)
	}
	list, err := admin.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(list) != 1 || list[0].ID != res.ID {
		t.Fatalf("list = %+v", list)
	}
	if len(list[0].Fields) != 1 || list[0].Fields.Get(models.SubmittedAtKey) == "" {
		t.Fatalf("fields = %v", list[0].Fields)
	}
}

func TestSubmitSurvivesSideEffectFailures(t *testing.T) {
	ctx := context.Background()
	store := newFlaky()
	store.failSet = "submission_"
	mailer := &fakeMailer{err: errors.New("resend 401")}
	s, _ := newSubmission(store, mailer)

	res, err := s.Submit(ctx, models.FormState{"p1_name": "A"}, "")
	if err != nil {
		t.Fatalf("Submit must not fail: %v", err)
	}
	if res.ID == "" {
		t.Fatal("id missing")
	}
	if res.Persist.OK || !apperrors.Is(res.Persist.Err(), apperrors.KindStore) {
		t.Fatalf("persist = %+v", res.Persist)
	}
	if res.Notify.OK || !apperrors.Is(res.Notify.Err(), apperrors.KindNotification) {
		t.Fatalf("notify = %+v", res.Notify)
	}
}

func TestSubmitIndexFailureStillNotifies(t *testing.T) {
	store := newFlaky()
	store.failSet = repository.IndexKey
	mailer := &fakeMailer{}
	s, _ := newSubmission(store, mailer)

	res, _ := s.Submit(context.Background(), models.FormState{}, "")
	if res.Persist.OK || !res.Notify.OK || len(mailer.sent) != 1 {
		t.Fatalf("res = %+v, sent %d", res, len(mailer.sent))
	}
}

func TestSubmitIDsAreUnique(t *testing.T) {
	s, _ := newSubmission(newFlaky(), &fakeMailer{})
	a, _ := s.Submit(context.Background(), models.FormState{}, "")
	b, _ := s.Submit(context.Background(), models.FormState{}, "")
	if a.ID == b.ID {
		t.Fatalf("duplicate id %s", a.ID)
	}
}

func TestSubmitWithoutKeyDuplicates(t *testing.T) {
	ctx := context.Background()
	s, admin := newSubmission(newFlaky(), &fakeMailer{})
	s.Submit(ctx, models.FormState{"p1_name": "A"}, "")
	s.Submit(ctx, models.FormState{"p1_name": "A"}, "")

	list, _ := admin.ListAll(ctx)
	if len(list) != 2 {
		t.Fatalf("got %d submissions, want 2", len(list))
	}
}

func TestSubmitIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	s, admin := newSubmission(newFlaky(), mailer)

	first, _ := s.Submit(ctx, models.FormState{"p1_name": "A"}, "tok-1")
	second, _ := s.Submit(ctx, models.FormState{"p1_name": "A"}, "tok-1")

	if second.ID != first.ID || !second.Duplicate {
		t.Fatalf("second = %+v, first id %s", second, first.ID)
	}
	if !second.Persist.Skipped || !second.Notify.Skipped {
		t.Fatalf("duplicate should skip side effects: %+v", second)
	}
	list, _ := admin.ListAll(ctx)
	if len(list) != 1 || len(mailer.sent) != 1 {
		t.Fatalf("records %d, emails %d", len(list), len(mailer.sent))
	}
}

func TestSubmitCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newSubmission(newFlaky(), &fakeMailer{})
	if _, err := s.Submit(ctx, models.FormState{}, ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
