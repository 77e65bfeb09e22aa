package contextguard

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/uira-ai/uira/hook"
)

// Action is the escalation level the guard recommends for a session.
type Action int

const (
	// ActionNone means usage is below the warning threshold.
	ActionNone Action = iota
	// ActionWarn means usage crossed the warning threshold.
	ActionWarn
	// ActionCompact means usage crossed the critical threshold; the
	// conversation should be compacted. Compact implies Warn.
	ActionCompact
)

// Environment switches that raise the context limit to the extended size.
const (
	EnvExtendedContext = "UIRA_CONTEXT_1M"
	EnvClaude1MContext = "CLAUDE_CODE_1M_CONTEXT"
)

// Config holds the guard's thresholds and limits.
type Config struct {
	// WarningThreshold is the usage ratio at which warnings start.
	WarningThreshold float64
	// CriticalThreshold is the usage ratio at which compaction is urged.
	CriticalThreshold float64
	// Cooldown is the minimum gap between warnings for one session.
	Cooldown time.Duration
	// MaxWarnings caps warnings per session between turn boundaries.
	MaxWarnings int
	// DefaultLimit is the assumed context window size in tokens.
	DefaultLimit int
	// ExtendedLimit applies when one of the environment switches is set.
	ExtendedLimit int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		WarningThreshold:  0.85,
		CriticalThreshold: 0.95,
		Cooldown:          60 * time.Second,
		MaxWarnings:       3,
		DefaultLimit:      200_000,
		ExtendedLimit:     1_000_000,
	}
}

// Guard tracks per-session usage against the context budget and decides
// when a warning is worth emitting.
type Guard struct {
	cfg    Config
	store  *SessionStore
	getenv func(string) string
}

// New creates a guard over a shared session store.
func New(store *SessionStore, cfg Config) *Guard {
	return &Guard{cfg: cfg, store: store, getenv: os.Getenv}
}

// Store returns the guard's session store.
func (g *Guard) Store() *SessionStore { return g.store }

// ContextLimit returns the token budget, raised to the extended limit when
// either environment switch is set to "true".
func (g *Guard) ContextLimit() int {
	if g.getenv(EnvExtendedContext) == "true" || g.getenv(EnvClaude1MContext) == "true" {
		return g.cfg.ExtendedLimit
	}
	return g.cfg.DefaultLimit
}

// UsageRatio returns the session's estimated usage as a fraction of the
// context limit.
func (g *Guard) UsageRatio(sessionID string) float64 {
	return float64(g.store.EstimatedTokens(sessionID)) / float64(g.ContextLimit())
}

// EvaluateRatio maps a usage ratio to an action.
func (g *Guard) EvaluateRatio(ratio float64) Action {
	switch {
	case ratio >= g.cfg.CriticalThreshold:
		return ActionCompact
	case ratio >= g.cfg.WarningThreshold:
		return ActionWarn
	default:
		return ActionNone
	}
}

// Evaluate maps the session's current usage to an action.
func (g *Guard) Evaluate(sessionID string) Action {
	return g.EvaluateRatio(g.UsageRatio(sessionID))
}

// RecordToolOutput accumulates the output of one tool call into the
// session's estimate. Only allow-listed tools count. Returns the new
// total estimate.
func (g *Guard) RecordToolOutput(sessionID, toolName string, output json.RawMessage) int {
	if !TrackedTool(toolName) {
		return g.store.EstimatedTokens(sessionID)
	}
	text := hook.ExtractToolText(output)
	if text == "" {
		return g.store.EstimatedTokens(sessionID)
	}
	return g.store.AddTokens(sessionID, EstimateTokens(text))
}

// MaybeWarn emits at most one warning for the session if usage is at least
// warning level and the cooldown and cap gates pass. It returns the
// message to surface (custom if non-empty, canned otherwise) and the
// action level, or "" and ActionNone when nothing should be emitted.
func (g *Guard) MaybeWarn(sessionID, custom string) (string, Action) {
	action := g.Evaluate(sessionID)
	if action == ActionNone {
		return "", ActionNone
	}
	if !g.store.TryWarn(sessionID, g.cfg.Cooldown, g.cfg.MaxWarnings) {
		return "", ActionNone
	}
	if custom != "" {
		return custom, action
	}
	return g.cannedMessage(sessionID, action), action
}

func (g *Guard) cannedMessage(sessionID string, action Action) string {
	percent := g.UsageRatio(sessionID) * 100
	if action == ActionCompact {
		return fmt.Sprintf(
			"Context usage critical (%.0f%% of the window). Compact the conversation now; "+
				"large tool output will be truncated soon.", percent)
	}
	return fmt.Sprintf(
		"Context usage high (%.0f%% of the window). Prefer targeted reads and consider "+
			"wrapping up or compacting.", percent)
}
