package repository

import (
	"context"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/kv"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
)

// CaseRepo stores one in-progress FormState per case under "case:{id}".
type CaseRepo struct {
	store kv.Store
}

func NewCaseRepo(store kv.Store) *CaseRepo {
	return &CaseRepo{store: store}
}

func caseKey(caseID string) string {
	return "case:" + caseID
}

// Put overwrites the whole record.
func (r *CaseRepo) Put(ctx context.Context, caseID string, state models.FormState) error {
	return r.store.Set(ctx, caseKey(caseID), encodeState(state))
}

// Get returns found=false with a nil error when the case was never saved.
func (r *CaseRepo) Get(ctx context.Context, caseID string) (models.FormState, bool, error) {
	raw, found, err := r.store.Get(ctx, caseKey(caseID))
	if err != nil || !found {
		return nil, false, err
	}
	state, err := decodeState(raw)
	if err != nil {
		return nil, false, err
	}
	return state, true, nil
}
