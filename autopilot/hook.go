package autopilot

import (
	"context"
	"fmt"
	"strings"

	"github.com/uira-ai/uira/hook"
)

// StopHookPriority places autopilot ahead of the other standard hooks so
// its blocking decision is taken before any of their messages accumulate.
const StopHookPriority = 100

// phaseInstructions is what the agent is told to do next in each working
// phase, including the sentinel it must emit when the phase is done.
var phaseInstructions = map[Phase]string{
	PhasePlanning: "Produce a concrete implementation plan for the task. " +
		"When the plan is written, emit PLANNING_COMPLETE in your reply.",
	PhaseExecuting: "Execute the plan step by step. " +
		"When every step is implemented, emit EXECUTION_COMPLETE in your reply.",
	PhaseVerifying: "Verify the implementation against the original task: run tests, " +
		"check edge cases, and fix what fails. " +
		"When verification passes, emit VERIFYING_COMPLETE in your reply.",
}

// StopHook watches Stop events and keeps an active run moving: it advances
// the phase when the expected sentinel appears, fails the run at the
// iteration limit, and otherwise blocks the turn with instructions so the
// agent keeps working instead of ending silently.
type StopHook struct {
	ctrl *Controller
}

// NewStopHook creates the hook around a controller.
func NewStopHook(ctrl *Controller) *StopHook {
	return &StopHook{ctrl: ctrl}
}

// Name implements hook.Hook.
func (h *StopHook) Name() string { return "autopilot" }

// Events implements hook.Hook.
func (h *StopHook) Events() []hook.Event { return []hook.Event{hook.StopEvent} }

// Priority implements hook.Hook.
func (h *StopHook) Priority() int { return StopHookPriority }

// Execute implements hook.Hook. The sequence per Stop event:
//
//  1. no usable state, or inactive → pass through
//  2. run bound to another session → pass through
//  3. cancellation sentinel → cancel, continue with notice
//  4. expected phase sentinel → advance; continue with notice on
//     completion, otherwise block with the next phase's instructions
//  5. iteration limit reached → fail, continue with notice (deliberately
//     not a block: blocking here would wedge the agent against the valve
//     with no way to end the turn)
//  6. otherwise → increment iteration, block with phase instructions
func (h *StopHook) Execute(ctx context.Context, event hook.Event, input *hook.Input, hctx *hook.Context) (*hook.Output, error) {
	dir := hctx.Directory

	s, err := h.ctrl.store.Load(dir)
	if err != nil {
		return nil, err
	}
	if s == nil || !s.Active {
		return hook.Continue(), nil
	}
	if s.SessionID != "" && input.SessionID != "" && s.SessionID != input.SessionID {
		return hook.Continue(), nil
	}

	sig := h.ctrl.detector.Detect(input.FinalMessage)

	if sig == SignalCancelled {
		prior := s.Phase
		if err := h.ctrl.apply(s, PhaseCancelled); err != nil {
			return nil, err
		}
		if err := h.ctrl.store.Save(dir, s); err != nil {
			return nil, err
		}
		return hook.ContinueWith(fmt.Sprintf(
			"Autopilot cancelled. Progress through phase %s is preserved in %s.",
			prior, StatePath(dir))), nil
	}

	if advances(s.Phase, sig) {
		next, _ := s.Phase.Successor()
		if err := h.ctrl.apply(s, next); err != nil {
			return nil, err
		}
		if err := h.ctrl.store.Save(dir, s); err != nil {
			return nil, err
		}
		if next == PhaseComplete {
			return hook.ContinueWith(fmt.Sprintf(
				"Autopilot complete after %d iteration(s): %s", s.Iteration, s.OriginalTask)), nil
		}
		return hook.Block(h.banner(s)), nil
	}

	if s.Iteration >= s.MaxIterations {
		if err := h.ctrl.apply(s, PhaseFailed); err != nil {
			return nil, err
		}
		s.LastError = fmt.Sprintf("iteration limit of %d reached", s.MaxIterations)
		if err := h.ctrl.store.Save(dir, s); err != nil {
			return nil, err
		}
		return hook.ContinueWith(fmt.Sprintf(
			"Autopilot stopped: iteration limit of %d reached before completion. "+
				"The run is marked failed; state is preserved in %s.",
			s.MaxIterations, StatePath(dir))), nil
	}

	s.Iteration++
	s.UpdatedAt = h.ctrl.now()
	if err := h.ctrl.store.Save(dir, s); err != nil {
		return nil, err
	}
	return hook.Block(h.banner(s)), nil
}

// banner builds the blocking reason: phase header, iteration counter, and
// the phase's instructions.
func (h *StopHook) banner(s *State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== AUTOPILOT: %s ===\n", strings.ToUpper(string(s.Phase)))
	fmt.Fprintf(&b, "Task: %s\n", s.OriginalTask)
	fmt.Fprintf(&b, "Iteration %d/%d\n\n", s.Iteration, s.MaxIterations)
	if inst, ok := phaseInstructions[s.Phase]; ok {
		b.WriteString(inst)
	}
	if s.PlanPath != "" && s.Phase != PhasePlanning {
		fmt.Fprintf(&b, "\nThe plan is at %s.", s.PlanPath)
	}
	b.WriteString("\nTo abort the run, emit AUTOPILOT_CANCELLED.")
	return b.String()
}
