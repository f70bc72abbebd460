package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/prefill"
)

type fakeTimer struct {
	clock   *fakeClock
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeClock records scheduled calls; tests fire them explicitly.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (c *fakeClock) Schedule(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, f: f}
	c.timers = append(c.timers, t)
	c.delays = append(c.delays, d)
	return t
}

func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs every pending timer and returns when they have all finished.
func (c *fakeClock) Fire() {
	c.mu.Lock()
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

// FireAsync is Fire in a goroutine; the channel closes when it returns.
func (c *fakeClock) FireAsync() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Fire()
	}()
	return done
}

type saveReply struct {
	at  string
	err error
}

type saveCall struct {
	state models.FormState
	reply chan saveReply
}

type fakeBackend struct {
	mu      sync.Mutex
	saves   []models.FormState
	saveErr error
	// gate, when set, hands every Save to the test for a reply.
	gate chan saveCall

	stored  models.FormState
	found   bool
	loadErr error

	submitErr   error
	submitState []models.FormState
	tokens      []string
}

func (b *fakeBackend) Save(_ context.Context, _ string, state models.FormState) (string, error) {
	b.mu.Lock()
	b.saves = append(b.saves, state)
	gate, err := b.gate, b.saveErr
	b.mu.Unlock()
	if gate != nil {
		call := saveCall{state: state, reply: make(chan saveReply)}
		gate <- call
		r := <-call.reply
		return r.at, r.err
	}
	if err != nil {
		return "", err
	}
	return "2026-04-01T12:00:00.000Z", nil
}

func (b *fakeBackend) Load(context.Context, string) (models.FormState, bool, error) {
	return b.stored, b.found, b.loadErr
}

func (b *fakeBackend) Submit(_ context.Context, state models.FormState, key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitState = append(b.submitState, state)
	b.tokens = append(b.tokens, key)
	if b.submitErr != nil {
		return "", b.submitErr
	}
	return "submission_1775044800000", nil
}

func (b *fakeBackend) saveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.saves)
}

func (b *fakeBackend) lastSave() models.FormState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves[len(b.saves)-1]
}

type fakePrefiller struct {
	userIDs []string
	bank    *prefill.BankResult
	credit  *prefill.CreditResult
	err     error
}

func (p *fakePrefiller) BankLinkToken(_ context.Context, userID string) (string, error) {
	p.userIDs = append(p.userIDs, userID)
	return "link-bank", p.err
}

func (p *fakePrefiller) CreditLinkToken(_ context.Context, userID string) (string, error) {
	p.userIDs = append(p.userIDs, userID)
	return "link-credit", p.err
}

func (p *fakePrefiller) ExchangeBank(context.Context, string) (*prefill.BankResult, error) {
	return p.bank, p.err
}

func (p *fakePrefiller) CreditCheck(context.Context, string) (*prefill.CreditResult, error) {
	return p.credit, p.err
}
