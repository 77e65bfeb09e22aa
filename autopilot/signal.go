package autopilot

import "strings"

// Signal is a sentinel the agent emits in its own output to mark phase
// completion or cancellation.
type Signal int

const (
	SignalNone Signal = iota
	SignalPlanningComplete
	SignalExecutionComplete
	SignalVerifyingComplete
	SignalAutopilotComplete
	SignalCancelled
)

// Sentinel substrings, matched case-insensitively.
const (
	sentinelPlanningComplete  = "PLANNING_COMPLETE"
	sentinelExecutionComplete = "EXECUTION_COMPLETE"
	sentinelVerifyingComplete = "VERIFYING_COMPLETE"
	sentinelAutopilotComplete = "AUTOPILOT_COMPLETE"
	sentinelCancelled         = "AUTOPILOT_CANCELLED"
)

// SignalDetector extracts a phase signal from agent output. It sits behind
// an interface so a structured completion protocol can replace free-text
// scanning without touching the state machine.
type SignalDetector interface {
	Detect(text string) Signal
}

// SentinelDetector scans free text for sentinel substrings. When several
// sentinels are present the disambiguation order is fixed: cancellation
// beats overall completion beats verifying-complete beats
// execution-complete beats planning-complete, regardless of where the
// substrings appear in the text.
type SentinelDetector struct{}

// Detect implements SignalDetector.
func (SentinelDetector) Detect(text string) Signal {
	upper := strings.ToUpper(text)
	switch {
	case strings.Contains(upper, sentinelCancelled):
		return SignalCancelled
	case strings.Contains(upper, sentinelAutopilotComplete):
		return SignalAutopilotComplete
	case strings.Contains(upper, sentinelVerifyingComplete):
		return SignalVerifyingComplete
	case strings.Contains(upper, sentinelExecutionComplete):
		return SignalExecutionComplete
	case strings.Contains(upper, sentinelPlanningComplete):
		return SignalPlanningComplete
	default:
		return SignalNone
	}
}

// expectedSignal returns the signal that advances the given phase.
func expectedSignal(p Phase) Signal {
	switch p {
	case PhasePlanning:
		return SignalPlanningComplete
	case PhaseExecuting:
		return SignalExecutionComplete
	case PhaseVerifying:
		return SignalVerifyingComplete
	default:
		return SignalNone
	}
}

// advances reports whether sig completes the given phase. The verifying
// phase accepts both its own sentinel and the overall completion sentinel.
func advances(p Phase, sig Signal) bool {
	if sig == SignalNone {
		return false
	}
	expected := expectedSignal(p)
	if expected == SignalNone {
		return false
	}
	if sig == expected {
		return true
	}
	return p == PhaseVerifying && sig == SignalAutopilotComplete
}
