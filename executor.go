package uira

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/uira-ai/uira/hook"
)

// Exit codes of the driver protocol. Anything else signals an engine
// failure, which the driver treats as continue.
const (
	ExitContinue = 0
	ExitBlock    = 2
)

// Executor runs one hook invocation end to end: read a payload, dispatch
// it through the registry, write the outcome.
type Executor struct {
	registry   *hook.Registry
	parser     *hook.Parser
	timeout    time.Duration
	workingDir string
	debug      *DebugLog
}

// NewExecutor creates an executor. workingDir is the fallback directory
// for payloads that carry no cwd of their own; empty means the process
// working directory.
func NewExecutor(registry *hook.Registry, timeout time.Duration, workingDir string) *Executor {
	return &Executor{
		registry:   registry,
		parser:     hook.NewParser(),
		timeout:    timeout,
		workingDir: workingDir,
		debug:      OpenDebugLog(),
	}
}

// Execute reads one payload from stdin, dispatches it, and writes the
// outcome to stdout.
func (e *Executor) Execute(ctx context.Context) error {
	_, err := e.run(ctx, os.Stdin, os.Stdout)
	return err
}

// ExecuteWithExitCode is Execute plus the exit-code mapping: 0 when the
// outcome continues, 2 when it blocks.
func (e *Executor) ExecuteWithExitCode(ctx context.Context) (int, error) {
	out, err := e.run(ctx, os.Stdin, os.Stdout)
	if err != nil {
		return ExitContinue, err
	}
	if !out.ShouldContinue {
		return ExitBlock, nil
	}
	return ExitContinue, nil
}

// Dispatch runs one parsed payload through the registry with the
// executor's timeout and directory resolution.
func (e *Executor) Dispatch(ctx context.Context, event hook.Event, input *hook.Input) (*hook.Output, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	hctx := &hook.Context{
		SessionID: input.SessionID,
		Directory: e.resolveDirectory(input),
	}

	e.debug.Printf("dispatch event=%s session=%s dir=%s", event, hctx.SessionID, hctx.Directory)
	out, err := e.registry.Dispatch(ctx, event, input, hctx)
	if err != nil {
		e.debug.Printf("dispatch failed: %v", err)
		return nil, err
	}
	e.debug.Printf("dispatch done continue=%t", out.ShouldContinue)
	return out, nil
}

func (e *Executor) run(ctx context.Context, r io.Reader, w io.Writer) (*hook.Output, error) {
	defer e.debug.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read hook payload: %w", err)
	}

	event, input, err := e.parser.ParseInput(data)
	if err != nil {
		return nil, err
	}

	out, err := e.Dispatch(ctx, event, input)
	if err != nil {
		return nil, err
	}

	encoded, err := e.parser.MarshalOutput(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hook output: %w", err)
	}
	if _, err := w.Write(encoded); err != nil {
		return nil, fmt.Errorf("failed to write hook output: %w", err)
	}
	return out, nil
}

func (e *Executor) resolveDirectory(input *hook.Input) string {
	if input.Cwd != "" {
		return input.Cwd
	}
	if e.workingDir != "" {
		return e.workingDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
