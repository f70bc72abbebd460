// Package wizard drives the intake form: step navigation, debounced
// autosave with sequenced responses, prefill imports and final submission.
package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parisxmas/OxiDB/OxiIntake/internal/models"
	"github.com/parisxmas/OxiDB/OxiIntake/internal/registry"
)

// DefaultDelay is the autosave quiescence window.
const DefaultDelay = 1500 * time.Millisecond

const saveTimeout = 30 * time.Second

type Status string

const (
	StatusLoading Status = "loading"
	StatusUnsaved Status = "unsaved"
	StatusSaving  Status = "saving"
	StatusSaved   Status = "saved"
)

var (
	ErrNotLastStep = errors.New("wizard: submit is only available on the last step")
	ErrSubmitted   = errors.New("wizard: already submitted")
	ErrSubmitting  = errors.New("wizard: submission in progress")
)

// Backend is the server side of the wizard.
type Backend interface {
	Save(ctx context.Context, caseID string, state models.FormState) (savedAt string, err error)
	Load(ctx context.Context, caseID string) (state models.FormState, found bool, err error)
	Submit(ctx context.Context, state models.FormState, idempotencyKey string) (id string, err error)
}

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler func(d time.Duration, f func()) Timer

// AfterFunc is the wall-clock Scheduler.
func AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Options struct {
	// Delay defaults to DefaultDelay.
	Delay time.Duration
	// Defaults are the pre-filled answers stored values are merged over.
	Defaults models.FormState
	// Registry defaults to registry.Intake.
	Registry  *registry.Registry
	Scheduler Scheduler
	Prefiller Prefiller
	// Log defaults to a no-op logger.
	Log *zerolog.Logger
}

type Controller struct {
	caseID    string
	backend   Backend
	prefiller Prefiller
	reg       *registry.Registry
	defaults  models.FormState
	delay     time.Duration
	schedule  Scheduler
	token     string
	log       zerolog.Logger

	mu           sync.Mutex
	state        models.FormState
	step         int
	status       Status
	savedAt      string
	message      string
	timer        Timer
	gen          uint64
	seq          uint64
	submitting   bool
	submitted    bool
	submissionID string
}

func New(caseID string, backend Backend, opts Options) *Controller {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Registry == nil {
		opts.Registry = registry.Intake
	}
	if opts.Scheduler == nil {
		opts.Scheduler = AfterFunc
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = *opts.Log
	}
	defaults := opts.Defaults.Clone()
	return &Controller{
		caseID:    caseID,
		backend:   backend,
		prefiller: opts.Prefiller,
		reg:       opts.Registry,
		defaults:  defaults,
		delay:     opts.Delay,
		schedule:  opts.Scheduler,
		token:     uuid.NewString(),
		log:       log.With().Str("component", "wizard").Str("caseId", caseID).Logger(),
		state:     defaults.Clone(),
		status:    StatusLoading,
	}
}

// Start loads the stored answers and merges them over the defaults. A
// failed or empty load leaves the defaults and reports unsaved.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.status = StatusLoading
	c.mu.Unlock()

	stored, found, err := c.backend.Load(ctx, c.caseID)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err != nil:
		c.log.Warn().Err(err).Msg("load failed")
		c.status = StatusUnsaved
	case !found:
		c.status = StatusUnsaved
	default:
		if at := stored.Get(models.SavedAtKey); at != "" {
			c.savedAt = at
		}
		c.state = c.defaults.Merge(stored.WithoutMeta())
		c.status = StatusSaved
	}
}

func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Steps is the number of wizard steps.
func (c *Controller) Steps() int { return c.reg.Len() }

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SavedAt is the timestamp of the last save known to have landed.
func (c *Controller) SavedAt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedAt
}

// Message is the inline status of the last prefill action.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// State returns a copy of the current answers.
func (c *Controller) State() models.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) Get(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Get(key)
}

// Submitted reports whether the wizard reached its terminal state, and the
// id the server assigned.
func (c *Controller) Submitted() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted, c.submissionID
}

func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.submitted && c.step < c.reg.Len()-1 {
		c.step++
	}
}

func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.submitted && c.step > 0 {
		c.step--
	}
}

// JumpTo moves to step j. Out-of-range steps are ignored.
func (c *Controller) JumpTo(j int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.submitted && j >= 0 && j < c.reg.Len() {
		c.step = j
	}
}

// Edit sets one answer and restarts the autosave window.
func (c *Controller) Edit(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitted {
		return
	}
	c.adoptLocked(c.state.Set(key, value))
}

// adoptLocked replaces the state and schedules a save. c.mu must be held.
func (c *Controller) adoptLocked(next models.FormState) {
	c.state = next
	c.gen++
	c.status = StatusUnsaved
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = c.schedule(c.delay, c.fire)
}

func (c *Controller) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	c.save(ctx)
}

// Flush saves pending edits now instead of waiting for the timer.
func (c *Controller) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer.Stop()
	c.mu.Unlock()
	c.save(ctx)
}

// Close cancels a pending save.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) save(ctx context.Context) {
	c.mu.Lock()
	c.timer = nil
	c.seq++
	seq, gen := c.seq, c.gen
	snapshot := c.state.Clone()
	c.status = StatusSaving
	c.mu.Unlock()

	savedAt, err := c.backend.Save(ctx, c.caseID, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug().Uint64("seq", seq).Uint64("latest", c.seq).Msg("stale save response ignored")
		return
	}
	if err != nil {
		c.log.Warn().Err(err).Uint64("seq", seq).Msg("autosave failed")
		c.status = StatusUnsaved
		return
	}
	c.savedAt = savedAt
	if gen == c.gen {
		c.status = StatusSaved
	} else {
		c.status = StatusUnsaved
	}
}

// Submit sends the full state once the last step is reached. The same
// idempotency token is reused on every attempt so retries collapse.
func (c *Controller) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	switch {
	case c.submitted:
		c.mu.Unlock()
		return c.submissionID, ErrSubmitted
	case c.submitting:
		c.mu.Unlock()
		return "", ErrSubmitting
	case c.step != c.reg.Len()-1:
		c.mu.Unlock()
		return "", ErrNotLastStep
	}
	c.submitting = true
	snapshot := c.state.Clone()
	c.mu.Unlock()

	id, err := c.backend.Submit(ctx, snapshot, c.token)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.log.Error().Err(err).Msg("submit failed")
		return "", err
	}
	c.submitted = true
	c.submissionID = id
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.log.Info().Str("id", id).Msg("submitted")
	return id, nil
}

// VisibleFields are the fields of the current step revealed by the answers.
func (c *Controller) VisibleFields() []registry.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reg.VisibleFields(c.step, c.state)
}

// NeedsInfo reports whether key is still unanswered. It never blocks
// navigation or submission.
func (c *Controller) NeedsInfo(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.TrimSpace(c.state.Get(key)) == ""
}

// BlankCount is the number of unanswered visible fields on the current step.
func (c *Controller) BlankCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, f := range c.reg.VisibleFields(c.step, c.state) {
		if strings.TrimSpace(c.state.Get(f.Key)) == "" {
			n++
		}
	}
	return n
}
