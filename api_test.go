package uira

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/uira-ai/uira/autopilot"
	"github.com/uira-ai/uira/hook"
	"github.com/uira-ai/uira/notepad"
)

func TestAPI_ProcessMessagePassThrough(t *testing.T) {
	api := New()
	dir := t.TempDir()

	payload := fmt.Sprintf(`{"hook_event_name":"Stop","session_id":"s-1","cwd":%q,"final_message":"done"}`, dir)
	out, err := api.ProcessMessage(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if !out.ShouldContinue || out.Message != "" {
		t.Errorf("ProcessMessage() = %+v, want plain continue", out)
	}
}

func TestAPI_ProcessMessageRejectsUnknownEvent(t *testing.T) {
	api := New()
	if _, err := api.ProcessMessage(context.Background(), []byte(`{"hook_event_name":"Mystery"}`)); err == nil {
		t.Error("ProcessMessage() expected error for unknown event")
	}
}

func TestAPI_AutopilotDrivesStopEvents(t *testing.T) {
	api := New()
	dir := t.TempDir()

	ctrl := autopilot.New(autopilot.NewFileStore())
	if _, err := ctrl.Start(dir, "wire the api", autopilot.Options{}); err != nil {
		t.Fatal(err)
	}

	// A fruitless stop is blocked with phase instructions.
	payload := fmt.Sprintf(`{"hook_event_name":"Stop","session_id":"s-1","cwd":%q,"final_message":"hmm"}`, dir)
	out, err := api.ProcessMessage(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if out.ShouldContinue {
		t.Fatal("expected a block while autopilot is active")
	}
	if !strings.Contains(out.Reason, "PLANNING") {
		t.Errorf("Reason = %q", out.Reason)
	}
}

func TestAPI_PromptInjectsNotepadContext(t *testing.T) {
	api := New()
	dir := t.TempDir()

	pad := notepad.NewNotepad(notepad.NewFileStore())
	if err := pad.WriteSection(dir, notepad.SectionPriority, "use the staging cluster"); err != nil {
		t.Fatal(err)
	}

	payload := fmt.Sprintf(`{"hook_event_name":"UserPromptSubmit","session_id":"s-1","cwd":%q,"prompt":"deploy"}`, dir)
	out, err := api.ProcessMessage(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if !out.ShouldContinue || !strings.Contains(out.Message, "use the staging cluster") {
		t.Errorf("ProcessMessage() = %+v", out)
	}
}

func TestBuilder_ExtraHookParticipates(t *testing.T) {
	api := NewBuilder().RegisterHook(&staticHook{
		name:     "custom",
		events:   []hook.Event{hook.NotificationEvent},
		priority: 5,
		out:      hook.ContinueWith("custom says hi"),
	}).Build()

	payload := `{"hook_event_name":"Notification","session_id":"s-1"}`
	out, err := api.ProcessMessage(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if out.Message != "custom says hi" {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestBuilder_ConfigOverridesGuard(t *testing.T) {
	warn := 0.5
	cfg := NewAppConfig()
	cfg.ContextGuard = &ContextGuardConfig{WarningThreshold: &warn}

	api := NewWithConfig(cfg)
	dir := t.TempDir()

	// 120k tokens of read output: 60% of the default window, above the
	// overridden 50% threshold.
	text := strings.Repeat("x", 480_000)
	payload := fmt.Sprintf(
		`{"hook_event_name":"PostToolUse","session_id":"s-1","cwd":%q,"tool_name":"Read","tool_output":{"text":%q}}`,
		dir, text)

	out, err := api.ProcessMessage(context.Background(), []byte(payload))
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if !strings.Contains(out.Message, "Context usage high") {
		t.Errorf("Message = %q, want a warning at the lowered threshold", out.Message)
	}
}

func TestRegistry_StandardHookOrdering(t *testing.T) {
	api := New()
	hooks := api.Registry().HooksFor(hook.StopEvent)
	if len(hooks) != 2 {
		t.Fatalf("HooksFor(Stop) returned %d hooks, want 2", len(hooks))
	}
	if hooks[0].Name() != "autopilot" || hooks[1].Name() != "context-guard" {
		t.Errorf("Stop order = [%s %s], want [autopilot context-guard]",
			hooks[0].Name(), hooks[1].Name())
	}
}

// staticHook returns a fixed outcome; used to exercise builder wiring.
type staticHook struct {
	name     string
	events   []hook.Event
	priority int
	out      *hook.Output
}

func (h *staticHook) Name() string        { return h.name }
func (h *staticHook) Events() []hook.Event { return h.events }
func (h *staticHook) Priority() int       { return h.priority }

func (h *staticHook) Execute(ctx context.Context, event hook.Event, input *hook.Input, hctx *hook.Context) (*hook.Output, error) {
	return h.out, nil
}
