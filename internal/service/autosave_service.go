package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/apperrors"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/config"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/repository"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/telemetry"
)

const errCaseIDRequired = "caseId required"

// AutosaveService keeps the in-progress FormState of each case.
type AutosaveService struct {
	cases    *repository.CaseRepo
	defaults config.CaseDefaults
	now      func() time.Time
	log      zerolog.Logger
}

func NewAutosaveService(cases *repository.CaseRepo, defaults config.CaseDefaults, log zerolog.Logger) *AutosaveService {
	return &AutosaveService{
		cases:    cases,
		defaults: defaults,
		now:      time.Now,
		log:      log.With().Str("component", "autosave").Logger(),
	}
}

// Save overwrites the case record with state plus _saved_at and returns the
// timestamp written. Nothing is merged with what was stored before.
func (s *AutosaveService) Save(ctx context.Context, caseID string, state models.FormState) (savedAt string, err error) {
	if caseID == "" {
		return "", apperrors.Validation("autosave.save", errCaseIDRequired)
	}
	ctx, span := telemetry.Start(ctx, "autosave.save", attribute.String("case.id", caseID), attribute.Int("fields", len(state)))
	defer func() { telemetry.End(span, err) }()

	savedAt = models.FormatTime(s.now())
	if err := s.cases.Put(ctx, caseID, state.Set(models.SavedAtKey, savedAt)); err != nil {
		s.log.Error().Err(err).Str("caseId", caseID).Msg("save failed")
		return "", apperrors.Store("autosave.save", err)
	}
	s.log.Debug().Str("caseId", caseID).Int("fields", len(state)).Msg("saved")
	return savedAt, nil
}

// Load returns found=false, without error, for a case never saved.
func (s *AutosaveService) Load(ctx context.Context, caseID string) (state models.FormState, found bool, err error) {
	if caseID == "" {
		return nil, false, apperrors.Validation("autosave.load", errCaseIDRequired)
	}
	ctx, span := telemetry.Start(ctx, "autosave.load", attribute.String("case.id", caseID))
	defer func() { telemetry.End(span, err) }()

	state, found, err = s.cases.Get(ctx, caseID)
	if err != nil {
		s.log.Error().Err(err).Str("caseId", caseID).Msg("load failed")
		return nil, false, apperrors.Store("autosave.load", err)
	}
	return state, found, nil
}

// Defaults returns the configured pre-filled answers for caseID.
func (s *AutosaveService) Defaults(caseID string) (models.FormState, error) {
	if caseID == "" {
		return nil, apperrors.Validation("autosave.defaults", errCaseIDRequired)
	}
	return s.defaults.For(caseID), nil
}
