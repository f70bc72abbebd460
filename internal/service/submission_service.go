package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/notify"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/repository"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/telemetry"
)

// SideEffect is the outcome of one best-effort step of a submission.
type SideEffect struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
	err     error
}

// Err returns the underlying failure, if any.
func (e SideEffect) Err() error { return e.err }

func succeeded() SideEffect { return SideEffect{OK: true} }

func skipped() SideEffect { return SideEffect{OK: true, Skipped: true} }

func failed(err error) SideEffect {
	return SideEffect{Error: err.Error(), err: err}
}

// SubmitResult always carries an id. Persist and Notify report the side
// effects, which never fail the submission itself.
type SubmitResult struct {
	ID          string     `json:"id"`
	SubmittedAt time.Time  `json:"submittedAt"`
	Duplicate   bool       `json:"duplicate,omitempty"`
	Persist     SideEffect `json:"persist"`
	Notify      SideEffect `json:"notify"`
}

type MailConfig struct {
	From string
	To   []string
}

type SubmissionService struct {
	subs   *repository.SubmissionRepo
	reg    *registry.Registry
	mailer notify.Mailer
	mail   MailConfig
	now    func() time.Time
	log    zerolog.Logger

	mu   sync.Mutex
	last int64
}

func NewSubmissionService(subs *repository.SubmissionRepo, reg *registry.Registry, mailer notify.Mailer, mail MailConfig, log zerolog.Logger) *SubmissionService {
	return &SubmissionService{
		subs:   subs,
		reg:    reg,
		mailer: mailer,
		mail:   mail,
		now:    time.Now,
		log:    log.With().Str("component", "submission").Logger(),
	}
}

// stamp returns the submission time, bumped by a millisecond when needed so
// ids from this process never collide.
func (s *SubmissionService) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.now().UTC()
	ms := t.UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
		t = time.UnixMilli(ms).UTC()
	}
	s.last = ms
	return t
}

// Submit snapshots state under a new id, appends it to the index and emails
// the summary. When idempotencyKey was already used the earlier id is
// returned and nothing else happens.
func (s *SubmissionService) Submit(ctx context.Context, state models.FormState, idempotencyKey string) (res SubmitResult, err error) {
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, err
	}
	ctx, span := telemetry.Start(ctx, "submission.submit", attribute.Int("fields", len(state)))
	defer func() {
		span.SetAttributes(
			attribute.String("submission.id", res.ID),
			attribute.Bool("submission.persisted", res.Persist.OK),
			attribute.Bool("submission.notified", res.Notify.OK),
		)
		telemetry.End(span, err)
	}()

	if idempotencyKey != "" {
		id, found, err := s.subs.IDForToken(ctx, idempotencyKey)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("idempotency lookup failed, submitting anyway")
		case found:
			s.log.Info().Str("id", id).Msg("duplicate submission collapsed")
			return SubmitResult{ID: id, Duplicate: true, Persist: skipped(), Notify: skipped()}, nil
		}
	}

	at := s.stamp()
	sub := models.NewSubmission(fmt.Sprintf("submission_%d", at.UnixMilli()), state, at)
	res = SubmitResult{ID: sub.ID, SubmittedAt: at}
	s.log.Info().Str("id", sub.ID).Int("fields", len(state)).Msg("submission received")

	res.Persist = s.persist(ctx, sub)
	if res.Persist.OK && idempotencyKey != "" {
		if err := s.subs.RememberToken(ctx, idempotencyKey, sub.ID); err != nil {
			s.log.Warn().Err(err).Str("id", sub.ID).Msg("idempotency token not recorded")
		}
	}
	res.Notify = s.notify(ctx, sub)
	return res, nil
}

func (s *SubmissionService) persist(ctx context.Context, sub models.Submission) SideEffect {
	if err := s.subs.Create(ctx, sub); err != nil {
		err = apperrors.Store("submission.persist", err)
		s.log.Warn().Err(err).Str("id", sub.ID).Msg("persist failed (non-fatal)")
		return failed(err)
	}
	if err := s.subs.AppendID(ctx, sub.ID); err != nil {
		err = apperrors.Store("submission.index", err)
		s.log.Warn().Err(err).Str("id", sub.ID).Msg("index append failed (non-fatal)")
		return failed(err)
	}
	return succeeded()
}

func (s *SubmissionService) notify(ctx context.Context, sub models.Submission) SideEffect {
	summary := notify.BuildSummary(s.reg, sub.Fields, sub.SubmittedAt)
	html, err := summary.HTML()
	if err != nil {
		err = apperrors.Notification("submission.render", err)
		s.log.Error().Err(err).Str("id", sub.ID).Msg("render failed")
		return failed(err)
	}
	msgID, err := s.mailer.Send(ctx, notify.Message{
		From:    s.mail.From,
		To:      s.mail.To,
		Subject: summary.Subject(),
		HTML:    html,
		Text:    summary.Text(),
	})
	if err != nil {
		err = apperrors.Notification("submission.notify", err)
		s.log.Error().Err(err).Str("id", sub.ID).Strs("to", s.mail.To).Msg("email failed (non-fatal)")
		return failed(err)
	}
	s.log.Info().Str("id", sub.ID).Str("messageId", msgID).Msg("email sent")
	return succeeded()
}
