package uira

import (
	"context"
	"time"

	"github.com/uira-ai/uira/autopilot"
	"github.com/uira-ai/uira/contextguard"
	"github.com/uira-ai/uira/hook"
	"github.com/uira-ai/uira/notepad"
)

// API is the main entry point for the pipeline as a library: it owns the
// registry with the standard hooks wired to their stores and processes
// driver payloads.
type API struct {
	executor *Executor
	parser   *hook.Parser
}

// New creates an API with default configuration.
func New() *API {
	return NewWithConfig(NewAppConfig())
}

// NewWithConfig creates an API with the given pipeline configuration.
func NewWithConfig(cfg *AppConfig) *API {
	return NewBuilder().WithConfig(cfg).Build()
}

// ProcessStdin processes one hook payload from stdin and writes the
// outcome to stdout.
func (a *API) ProcessStdin(ctx context.Context) error {
	return a.executor.Execute(ctx)
}

// ProcessStdinWithExitCode is ProcessStdin plus the exit-code protocol:
// 0 for continue, 2 for block.
func (a *API) ProcessStdinWithExitCode(ctx context.Context) (int, error) {
	return a.executor.ExecuteWithExitCode(ctx)
}

// ProcessMessage processes one raw payload and returns the folded outcome.
func (a *API) ProcessMessage(ctx context.Context, data []byte) (*hook.Output, error) {
	event, input, err := a.parser.ParseInput(data)
	if err != nil {
		return nil, err
	}
	return a.executor.Dispatch(ctx, event, input)
}

// Registry exposes the hook registry so callers can add their own hooks.
func (a *API) Registry() *hook.Registry {
	return a.executor.registry
}

// SetTimeout updates the per-dispatch timeout.
func (a *API) SetTimeout(timeout time.Duration) {
	a.executor.timeout = timeout
}

// Builder assembles an API instance.
type Builder struct {
	timeout    time.Duration
	workingDir string
	cfg        *AppConfig
	extra      []hook.Hook
}

// NewBuilder creates a builder with defaults.
func NewBuilder() *Builder {
	return &Builder{
		timeout: 60 * time.Second,
		cfg:     NewAppConfig(),
	}
}

// WithTimeout sets the per-dispatch timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithWorkingDir sets the fallback working directory used when a payload
// does not carry its own cwd.
func (b *Builder) WithWorkingDir(dir string) *Builder {
	b.workingDir = dir
	return b
}

// WithConfig sets the pipeline configuration.
func (b *Builder) WithConfig(cfg *AppConfig) *Builder {
	if cfg != nil {
		b.cfg = cfg
	}
	return b
}

// RegisterHook adds a caller-supplied hook alongside the standard ones.
func (b *Builder) RegisterHook(h hook.Hook) *Builder {
	b.extra = append(b.extra, h)
	return b
}

// Build wires the standard hooks (autopilot at priority 100, context guard
// at 50, notepad at 10) to shared stores and returns the API.
func (b *Builder) Build() *API {
	if b.cfg.Timeout != nil {
		b.timeout = b.cfg.Timeout.Duration
	}

	registry := hook.NewRegistry()

	ctrl := autopilot.New(autopilot.NewFileStore())
	registry.Register(autopilot.NewStopHook(ctrl))

	gcfg := contextguard.DefaultConfig()
	if c := b.cfg.ContextGuard; c != nil {
		if c.WarningThreshold != nil {
			gcfg.WarningThreshold = *c.WarningThreshold
		}
		if c.CriticalThreshold != nil {
			gcfg.CriticalThreshold = *c.CriticalThreshold
		}
		if c.Cooldown != nil {
			gcfg.Cooldown = c.Cooldown.Duration
		}
		if c.MaxWarnings != nil {
			gcfg.MaxWarnings = *c.MaxWarnings
		}
	}
	guard := contextguard.New(contextguard.NewSessionStore(), gcfg)
	registry.Register(contextguard.NewGuardHook(guard))

	pruneAge := notepad.DefaultMaxAge
	if b.cfg.Notepad != nil && b.cfg.Notepad.PruneAfter != nil {
		pruneAge = b.cfg.Notepad.PruneAfter.Duration
	}
	pad := notepad.NewNotepad(notepad.NewFileStore())
	registry.Register(notepad.NewPromptHook(pad, pruneAge))

	for _, h := range b.extra {
		registry.Register(h)
	}

	return &API{
		executor: NewExecutor(registry, b.timeout, b.workingDir),
		parser:   hook.NewParser(),
	}
}
