package notepad

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/uira-ai/uira/hook"
)

// PromptHookPriority puts the notepad last among the standard hooks: its
// injected context should trail any autopilot or guard messages.
const PromptHookPriority = 10

// PromptHook surfaces the Priority Context section to the model on every
// prompt and prunes stale Working Memory when the session goes idle.
type PromptHook struct {
	pad      *Notepad
	pruneAge time.Duration
}

// NewPromptHook creates the hook. A non-positive pruneAge falls back to
// DefaultMaxAge.
func NewPromptHook(pad *Notepad, pruneAge time.Duration) *PromptHook {
	if pruneAge <= 0 {
		pruneAge = DefaultMaxAge
	}
	return &PromptHook{pad: pad, pruneAge: pruneAge}
}

// Name implements hook.Hook.
func (h *PromptHook) Name() string { return "notepad" }

// Events implements hook.Hook.
func (h *PromptHook) Events() []hook.Event {
	return []hook.Event{hook.UserPromptSubmitEvent, hook.SessionIdleEvent}
}

// Priority implements hook.Hook.
func (h *PromptHook) Priority() int { return PromptHookPriority }

// Execute implements hook.Hook.
func (h *PromptHook) Execute(ctx context.Context, event hook.Event, input *hook.Input, hctx *hook.Context) (*hook.Output, error) {
	switch event {
	case hook.UserPromptSubmitEvent:
		priority, err := h.pad.ReadSection(hctx.Directory, SectionPriority)
		if err != nil {
			return nil, err
		}
		if priority == "" {
			return hook.Continue(), nil
		}
		msg := "Notepad priority context:\n\n" + priority
		if n := utf8.RuneCountInString(priority); n > PriorityCap {
			msg += fmt.Sprintf("\n\n(Priority context is %d characters, above the %d soft cap; trim it.)", n, PriorityCap)
		}
		return hook.ContinueWith(msg), nil

	case hook.SessionIdleEvent:
		if _, err := h.pad.Prune(hctx.Directory, h.pruneAge); err != nil {
			return nil, err
		}
		return hook.Continue(), nil
	}

	return hook.Continue(), nil
}
