package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/db"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/oxidb"
)

// RecordsCollection holds one document per key: {key, value, updatedAt}.
const RecordsCollection = "_intake_kv"

// OxiDB stores records as documents in an OxiDB collection.
type OxiDB struct {
	pool *db.Pool
}

func NewOxiDB(pool *db.Pool) *OxiDB {
	return &OxiDB{pool: pool}
}

// EnsureIndexes creates the unique index on the record key.
func (s *OxiDB) EnsureIndexes(ctx context.Context) error {
	return s.pool.Get().CreateUniqueIndex(ctx, RecordsCollection, "key")
}

func (s *OxiDB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	doc, err := s.pool.Get().FindOne(ctx, RecordsCollection, map[string]any{"key": key})
	if err != nil {
		return nil, false, fmt.Errorf("oxidb get %s: %w", key, err)
	}
	if doc == nil {
		return nil, false, nil
	}
	value, ok := doc["value"].(string)
	if !ok {
		return nil, false, fmt.Errorf("oxidb get %s: value is %T, not string", key, doc["value"])
	}
	return []byte(value), true, nil
}

// Set updates the existing document or inserts a new one. A concurrent
// insert for the same key loses to the unique index and falls back to update.
func (s *OxiDB) Set(ctx context.Context, key string, value []byte) error {
	c := s.pool.Get()
	fields := map[string]any{
		"value":     string(value),
		"updatedAt": time.Now().UTC().Format(time.RFC3339Nano),
	}
	query := map[string]any{"key": key}

	n, err := c.UpdateOne(ctx, RecordsCollection, query, map[string]any{"$set": fields})
	if err != nil {
		return fmt.Errorf("oxidb set %s: %w", key, err)
	}
	if n > 0 {
		return nil
	}

	doc := map[string]any{"key": key}
	for k, v := range fields {
		doc[k] = v
	}
	_, err = c.Insert(ctx, RecordsCollection, doc)
	var conflict *oxidb.ConflictError
	if errors.As(err, &conflict) {
		_, err = c.UpdateOne(ctx, RecordsCollection, query, map[string]any{"$set": fields})
	}
	if err != nil {
		return fmt.Errorf("oxidb set %s: %w", key, err)
	}
	return nil
}

// Close releases the pool.
func (s *OxiDB) Close() error {
	s.pool.Close()
	return nil
}
