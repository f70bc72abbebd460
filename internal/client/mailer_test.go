package client_test

import (
	"context"
	"sync"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/notify"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (m *captureMailer) Send(_ context.Context, msg notify.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return "msg", nil
}
