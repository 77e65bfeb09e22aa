package hook

// Output is the decision a hook returns for one event. ShouldContinue false
// halts the dispatch; Message is user-visible text carried back to the
// driver on a continue; Reason explains a block. How outputs from multiple
// hooks combine is defined by the Registry, not by any single hook.
type Output struct {
	ShouldContinue bool   `json:"should_continue"`
	Message        string `json:"message,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// Continue returns a pass-through outcome with no message.
func Continue() *Output {
	return &Output{ShouldContinue: true}
}

// ContinueWith returns a continue outcome carrying a user-visible message.
func ContinueWith(message string) *Output {
	return &Output{ShouldContinue: true, Message: message}
}

// Block returns a blocking outcome with the given reason.
func Block(reason string) *Output {
	return &Output{ShouldContinue: false, Reason: reason}
}
