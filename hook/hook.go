package hook

import "context"

// Hook is a named, prioritized handler bound to one or more lifecycle
// events. Execute returns the hook's decision for one event, or an error
// when the invocation itself failed; an error aborts the whole dispatch.
type Hook interface {
	// Name identifies the hook in errors and debug output.
	Name() string

	// Events returns the set of events this hook handles.
	Events() []Event

	// Priority orders execution within one event dispatch; higher runs
	// first. Ties keep registration order.
	Priority() int

	// Execute processes one event. A nil Output is treated as a
	// pass-through continue.
	Execute(ctx context.Context, event Event, input *Input, hctx *Context) (*Output, error)
}
