package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/kv"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
)

// IndexKey holds the JSON array of every submission id, oldest first.
const IndexKey = "submission_ids"

// SubmissionRepo stores submissions under their id, the append-only index and
// the idempotency-token mapping.
type SubmissionRepo struct {
	store kv.Store
	// serializes read-modify-write of the index within this process
	indexMu sync.Mutex
}

func NewSubmissionRepo(store kv.Store) *SubmissionRepo {
	return &SubmissionRepo{store: store}
}

// Create writes the submission record. It does not touch the index.
func (r *SubmissionRepo) Create(ctx context.Context, sub models.Submission) error {
	return r.store.Set(ctx, sub.ID, encodeState(sub.Fields))
}

// FindByID returns found=false when no record exists.
func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (models.Submission, bool, error) {
	raw, found, err := r.store.Get(ctx, id)
	if err != nil || !found {
		return models.Submission{}, false, err
	}
	fields, err := decodeState(raw)
	if err != nil {
		return models.Submission{}, false, err
	}
	return models.SubmissionFromRecord(id, fields), true, nil
}

// IDs reads the whole index. A missing index is empty.
func (r *SubmissionRepo) IDs(ctx context.Context) ([]string, error) {
	raw, found, err := r.store.Get(ctx, IndexKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", IndexKey, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// AppendID reads the index, appends id and writes it back. Across processes
// the write is last-write-wins.
func (r *SubmissionRepo) AppendID(ctx context.Context, id string) error {
	r.indexMu.Lock()
	defer r.indexMu.Unlock()

	ids, err := r.IDs(ctx)
	if err != nil {
		return err
	}
	ids = append(ids, id)
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, IndexKey, raw)
}

func idemKey(token string) string {
	return "submission_idem:" + token
}

// IDForToken returns the submission id recorded for an idempotency token.
func (r *SubmissionRepo) IDForToken(ctx context.Context, token string) (string, bool, error) {
	raw, found, err := r.store.Get(ctx, idemKey(token))
	if err != nil || !found {
		return "", false, err
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", false, fmt.Errorf("decode %s: %w", idemKey(token), err)
	}
	return id, id != "", nil
}

// RememberToken maps token to id.
func (r *SubmissionRepo) RememberToken(ctx context.Context, token, id string) error {
	raw, _ := json.Marshal(id)
	return r.store.Set(ctx, idemKey(token), raw)
}
