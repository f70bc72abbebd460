// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/gelf"
)

// Config selects level and sinks.
type Config struct {
	Level       string
	ServiceName string
	Version     string
	// GELFAddr, when set, also ships every event to a GELF UDP input.
	GELFAddr string
	// Output defaults to stdout.
	Output io.Writer
}

// New returns a JSON zerolog logger. An unknown level falls back to info. The
// returned closer releases the GELF socket if one was opened.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	var closer io.Closer = nopCloser{}
	if cfg.GELFAddr != "" {
		gw, err := gelf.New(cfg.GELFAddr, cfg.ServiceName)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		out = zerolog.MultiLevelWriter(out, gw)
		closer = gw
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("service", cfg.ServiceName)
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return ctx.Logger(), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
