package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/repository"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/telemetry"
)

const fetchConcurrency = 8

type AdminService struct {
	subs *repository.SubmissionRepo
	log  zerolog.Logger
}

func NewAdminService(subs *repository.SubmissionRepo, log zerolog.Logger) *AdminService {
	return &AdminService{subs: subs, log: log.With().Str("component", "admin").Logger()}
}

// ListAll returns every readable submission, newest first. Records that are
// missing or unreadable are skipped; only an unreadable index fails.
func (s *AdminService) ListAll(ctx context.Context) (subs []models.Submission, err error) {
	ctx, span := telemetry.Start(ctx, "admin.list")
	defer func() { telemetry.End(span, err) }()

	ids, err := s.subs.IDs(ctx)
	if err != nil {
		return nil, apperrors.Fetch("admin.list", err)
	}

	found := make([]*models.Submission, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			sub, ok, err := s.subs.FindByID(gctx, id)
			if err != nil {
				s.log.Warn().Err(err).Str("id", id).Msg("skipping unreadable submission")
				return nil
			}
			if !ok {
				s.log.Warn().Str("id", id).Msg("indexed submission missing")
				return nil
			}
			found[i] = &sub
			return nil
		})
	}
	g.Wait()

	subs = make([]models.Submission, 0, len(found))
	for _, sub := range found {
		if sub != nil {
			subs = append(subs, *sub)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].SubmittedAt.After(subs[j].SubmittedAt)
	})
	return subs, nil
}

// Get returns one submission.
func (s *AdminService) Get(ctx context.Context, id string) (models.Submission, error) {
	sub, ok, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return models.Submission{}, apperrors.Fetch("admin.get", err)
	}
	if !ok {
		return models.Submission{}, apperrors.NotFound("admin.get", "submission not found")
	}
	return sub, nil
}

type Dashboard struct {
	Count    int            `json:"count"`
	Latest   *time.Time     `json:"latest"`
	ByCounty map[string]int `json:"byCounty"`
}

// Dashboard summarizes ListAll. Submissions without a county count under "".
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	subs, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Count: len(subs), ByCounty: map[string]int{}}
	if len(subs) > 0 && !subs[0].SubmittedAt.IsZero() {
		latest := subs[0].SubmittedAt
		d.Latest = &latest
	}
	for _, sub := range subs {
		d.ByCounty[sub.Fields.Get("court_county")]++
	}
	return d, nil
}
