// Package autopilot drives autonomous multi-phase execution across agent
// turns. A phase state machine persisted per working directory decides on
// every Stop event whether the agent advances, keeps working, or halts.
package autopilot

import "fmt"

// Phase is one state of the autopilot state machine. Serialized lowercase.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePlanning  Phase = "planning"
	PhaseExecuting Phase = "executing"
	PhaseVerifying Phase = "verifying"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
	PhaseCancelled Phase = "cancelled"
)

// successors is the forward transition table. Failed and Cancelled are
// reachable from every state and handled separately.
var successors = map[Phase]Phase{
	PhaseIdle:      PhasePlanning,
	PhasePlanning:  PhaseExecuting,
	PhaseExecuting: PhaseVerifying,
	PhaseVerifying: PhaseComplete,
}

// Known reports whether p is a named phase.
func (p Phase) Known() bool {
	switch p {
	case PhaseIdle, PhasePlanning, PhaseExecuting, PhaseVerifying,
		PhaseComplete, PhaseFailed, PhaseCancelled:
		return true
	}
	return false
}

// Terminal reports whether p ends the run. A terminal phase clears the
// active flag but the state document stays on disk.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseFailed || p == PhaseCancelled
}

// Successor returns the next forward phase, if p has one.
func (p Phase) Successor() (Phase, bool) {
	next, ok := successors[p]
	return next, ok
}

// ValidateTransition reports whether from→to is a legal transition:
// the forward chain idle→planning→executing→verifying→complete, plus
// any state→failed and any state→cancelled.
func ValidateTransition(from, to Phase) bool {
	if !from.Known() || !to.Known() {
		return false
	}
	if to == PhaseFailed || to == PhaseCancelled {
		return true
	}
	next, ok := from.Successor()
	return ok && next == to
}

// transitionError reports an illegal transition, naming both phases.
// Illegal requests are never coerced to the closest legal transition.
func transitionError(from, to Phase) error {
	return fmt.Errorf("illegal phase transition from %q to %q", from, to)
}
