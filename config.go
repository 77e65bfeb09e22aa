// Package uira is the hook pipeline engine of the uira agent loop: it
// intercepts lifecycle events (prompt submitted, tool used, turn stopped)
// and decides whether execution continues, is redirected with an injected
// message, or is halted. The engine is a library; the agent-loop driver
// that raises events is out of scope.
package uira

import (
	"encoding/json"
	"time"
)

// AppConfig is the complete pipeline configuration. Fields are pointers so
// layered config files can override selectively; see ConfigLoader.
type AppConfig struct {
	Timeout      *Duration           `json:"timeout,omitempty"`
	Autopilot    *AutopilotConfig    `json:"autopilot,omitempty"`
	ContextGuard *ContextGuardConfig `json:"contextGuard,omitempty"`
	Notepad      *NotepadConfig      `json:"notepad,omitempty"`
}

// AutopilotConfig overrides autopilot defaults.
type AutopilotConfig struct {
	MaxIterations *int `json:"maxIterations,omitempty"`
}

// ContextGuardConfig overrides context-guard defaults.
type ContextGuardConfig struct {
	WarningThreshold  *float64  `json:"warningThreshold,omitempty"`
	CriticalThreshold *float64  `json:"criticalThreshold,omitempty"`
	Cooldown          *Duration `json:"cooldown,omitempty"`
	MaxWarnings       *int      `json:"maxWarnings,omitempty"`
}

// NotepadConfig overrides notepad defaults.
type NotepadConfig struct {
	PruneAfter *Duration `json:"pruneAfter,omitempty"`
}

// Duration wraps time.Duration for JSON round-tripping as "60s" strings.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	duration, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = duration
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// NewAppConfig creates an empty configuration.
func NewAppConfig() *AppConfig {
	return &AppConfig{}
}

// Merge combines two configs, with other taking precedence field by field.
func (c *AppConfig) Merge(other *AppConfig) {
	if other == nil {
		return
	}
	if other.Timeout != nil {
		c.Timeout = other.Timeout
	}
	if other.Autopilot != nil {
		if c.Autopilot == nil {
			c.Autopilot = &AutopilotConfig{}
		}
		if other.Autopilot.MaxIterations != nil {
			c.Autopilot.MaxIterations = other.Autopilot.MaxIterations
		}
	}
	if other.ContextGuard != nil {
		if c.ContextGuard == nil {
			c.ContextGuard = &ContextGuardConfig{}
		}
		if other.ContextGuard.WarningThreshold != nil {
			c.ContextGuard.WarningThreshold = other.ContextGuard.WarningThreshold
		}
		if other.ContextGuard.CriticalThreshold != nil {
			c.ContextGuard.CriticalThreshold = other.ContextGuard.CriticalThreshold
		}
		if other.ContextGuard.Cooldown != nil {
			c.ContextGuard.Cooldown = other.ContextGuard.Cooldown
		}
		if other.ContextGuard.MaxWarnings != nil {
			c.ContextGuard.MaxWarnings = other.ContextGuard.MaxWarnings
		}
	}
	if other.Notepad != nil {
		if c.Notepad == nil {
			c.Notepad = &NotepadConfig{}
		}
		if other.Notepad.PruneAfter != nil {
			c.Notepad.PruneAfter = other.Notepad.PruneAfter
		}
	}
}
