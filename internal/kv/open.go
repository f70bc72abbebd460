package kv

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/db"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendOxiDB    = "oxidb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	OxiDBHost   string
	OxiDBPort   int
	PoolSize    int
	SQLitePath  string
	PostgresDSN string
}

// Open returns the Store named by opts.Backend.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return NewMemory(), nil
	case BackendOxiDB:
		pool, err := db.NewPool(opts.OxiDBHost, opts.OxiDBPort, opts.PoolSize, log)
		if err != nil {
			return nil, err
		}
		s := NewOxiDB(pool)
		if err := s.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("create record index failed")
		}
		log.Info().Str("host", opts.OxiDBHost).Int("port", opts.OxiDBPort).Int("pool_size", pool.Size()).Msg("connected to OxiDB")
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", opts.SQLitePath).Msg("opened SQLite store")
		return s, nil
	case BackendPostgres:
		s, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to Postgres")
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
