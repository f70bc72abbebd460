package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/kv"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/notify"
)

var errBackend = errors.New("backend unavailable")

// flakyStore fails reads or writes of keys with a given prefix.
type flakyStore struct {
	*kv.Memory
	mu      sync.Mutex
	failSet string
	failGet string
}

func newFlaky() *flakyStore { return &flakyStore{Memory: kv.NewMemory()} }

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	fail := s.failGet != "" && strings.HasPrefix(key, s.failGet)
	s.mu.Unlock()
	if fail {
		return nil, false, errBackend
	}
	return s.Memory.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failSet != "" && strings.HasPrefix(key, s.failSet)
	s.mu.Unlock()
	if fail {
		return errBackend
	}
	return s.Memory.Set(ctx, key, value)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}
