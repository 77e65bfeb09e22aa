package hook

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds all registered hooks and dispatches events to them.
//
// For one event the matching hooks run strictly sequentially in descending
// priority order, ties broken by registration order. The ordering is
// observable: messages combine in that order and a block short-circuits
// everything after it.
type Registry struct {
	mu    sync.RWMutex
	hooks []Hook // registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a hook. Registration order is the tie-breaker for hooks
// with equal priority.
func (r *Registry) Register(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = nil
}

// HooksFor returns the hooks bound to event, in execution order.
func (r *Registry) HooksFor(event Event) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Hook
	for _, h := range r.hooks {
		for _, e := range h.Events() {
			if e == event {
				matched = append(matched, h)
				break
			}
		}
	}
	// Stable sort keeps registration order among equal priorities.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority() > matched[j].Priority()
	})
	return matched
}

// Dispatch runs all hooks bound to event, in order, and folds their
// outcomes into one:
//
//   - a hook returning ShouldContinue=false stops the dispatch immediately
//     and its outcome is returned verbatim. Messages from earlier hooks in
//     the same pass are discarded; the blocking reason is the only thing
//     the driver sees.
//   - messages from non-blocking hooks accumulate in execution order.
//   - a hook invocation error aborts the dispatch; there is no per-hook
//     isolation or retry at this layer.
//
// If no hook matched, or none blocked, the result continues with the
// combined message (if any).
func (r *Registry) Dispatch(ctx context.Context, event Event, input *Input, hctx *Context) (*Output, error) {
	var messages []string

	for _, h := range r.HooksFor(event) {
		out, err := h.Execute(ctx, event, input, hctx)
		if err != nil {
			return nil, fmt.Errorf("hook %q failed on %s: %w", h.Name(), event, err)
		}
		if out == nil {
			continue
		}
		if !out.ShouldContinue {
			return out, nil
		}
		if out.Message != "" {
			messages = append(messages, out.Message)
		}
	}

	return &Output{
		ShouldContinue: true,
		Message:        strings.Join(messages, "\n\n"),
	}, nil
}
