package autopilot

import (
	"errors"
	"fmt"
	"time"
)

// DefaultMaxIterations is the safety valve: the number of Stop events a
// single run may consume before the run is failed.
const DefaultMaxIterations = 10

// ErrNoState is returned by operations that require an existing run.
var ErrNoState = errors.New("no autopilot state for directory")

// ErrAlreadyActive is returned by Start when a run is already in progress.
var ErrAlreadyActive = errors.New("autopilot already active for directory")

// Options configures a new run.
type Options struct {
	// MaxIterations overrides DefaultMaxIterations when positive.
	MaxIterations int
	// SessionID binds the run to one session; Stop events from other
	// sessions pass through untouched.
	SessionID string
	// PlanPath records where the planning phase writes its plan.
	PlanPath string
}

// Controller exposes the state-machine operations over a Store. All
// mutations are full read, validate, full rewrite; an invalid result
// leaves the previous document untouched.
type Controller struct {
	store    Store
	detector SignalDetector
	now      func() time.Time
}

// New creates a controller with the sentinel detector and wall-clock time.
func New(store Store) *Controller {
	return &Controller{
		store:    store,
		detector: SentinelDetector{},
		now:      time.Now,
	}
}

// NewWithDetector creates a controller with a custom signal detector.
func NewWithDetector(store Store, detector SignalDetector) *Controller {
	c := New(store)
	c.detector = detector
	return c
}

// Start creates a new run for dir and enters the planning phase.
func (c *Controller) Start(dir, task string, opts Options) (*State, error) {
	if task == "" {
		return nil, fmt.Errorf("autopilot task must not be empty")
	}

	existing, err := c.store.Load(dir)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Active {
		return nil, ErrAlreadyActive
	}

	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	now := c.now()
	s := &State{
		Active:        true,
		Phase:         PhasePlanning,
		Iteration:     1,
		MaxIterations: maxIterations,
		OriginalTask:  task,
		PlanPath:      opts.PlanPath,
		SessionID:     opts.SessionID,
		StartedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.store.Save(dir, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Transition moves the run for dir to the requested phase. Illegal
// transitions are rejected with an error naming both phases.
func (c *Controller) Transition(dir string, to Phase) (*State, error) {
	s, err := c.load(dir)
	if err != nil {
		return nil, err
	}
	if err := c.apply(s, to); err != nil {
		return nil, err
	}
	if err := c.store.Save(dir, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Fail moves the run to the failed phase, recording the reason.
func (c *Controller) Fail(dir, reason string) (*State, error) {
	s, err := c.load(dir)
	if err != nil {
		return nil, err
	}
	if err := c.apply(s, PhaseFailed); err != nil {
		return nil, err
	}
	s.LastError = reason
	if err := c.store.Save(dir, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Cancel moves the run to the cancelled phase. Progress stays on disk.
func (c *Controller) Cancel(dir string) (*State, error) {
	return c.Transition(dir, PhaseCancelled)
}

// Status returns the current state document, or ErrNoState.
func (c *Controller) Status(dir string) (*State, error) {
	return c.load(dir)
}

// IsActive reports whether a run is in progress for dir.
func (c *Controller) IsActive(dir string) bool {
	s, err := c.store.Load(dir)
	return err == nil && s != nil && s.Active
}

func (c *Controller) load(dir string) (*State, error) {
	s, err := c.store.Load(dir)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoState
	}
	return s, nil
}

// apply mutates s in memory for a transition to the requested phase.
// Terminal phases clear the active flag and stamp completion.
func (c *Controller) apply(s *State, to Phase) error {
	if !ValidateTransition(s.Phase, to) {
		return transitionError(s.Phase, to)
	}
	now := c.now()
	s.Phase = to
	s.UpdatedAt = now
	if to.Terminal() {
		s.Active = false
		s.CompletedAt = &now
	}
	return nil
}
