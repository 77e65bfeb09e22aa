package uira

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestAppConfig_Merge(t *testing.T) {
	five := 5
	ninety := 0.90
	base := NewAppConfig()
	base.Autopilot = &AutopilotConfig{MaxIterations: &five}
	base.ContextGuard = &ContextGuardConfig{WarningThreshold: &ninety}

	twenty := 20
	override := NewAppConfig()
	override.Autopilot = &AutopilotConfig{MaxIterations: &twenty}
	override.Timeout = &Duration{30 * time.Second}

	base.Merge(override)

	if *base.Autopilot.MaxIterations != 20 {
		t.Errorf("MaxIterations = %d, want the override 20", *base.Autopilot.MaxIterations)
	}
	// Fields absent from the override keep their value.
	if base.ContextGuard == nil || *base.ContextGuard.WarningThreshold != 0.90 {
		t.Error("WarningThreshold lost during merge")
	}
	if base.Timeout == nil || base.Timeout.Duration != 30*time.Second {
		t.Error("Timeout not taken from override")
	}

	// Merging nil is a no-op.
	base.Merge(nil)
	if *base.Autopilot.MaxIterations != 20 {
		t.Error("Merge(nil) changed the config")
	}
}

func TestDuration_JSONRoundTrip(t *testing.T) {
	var cfg AppConfig
	if err := json.Unmarshal([]byte(`{"timeout":"90s"}`), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Timeout.Duration != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout.Duration)
	}

	data, err := json.Marshal(&cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"timeout":"1m30s"}` {
		t.Errorf("Marshal() = %s", data)
	}

	if err := json.Unmarshal([]byte(`{"timeout":"not a duration"}`), &cfg); err == nil {
		t.Error("Unmarshal(bad duration) expected error")
	}
}

func TestConfigLoader_LayeredPrecedence(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()

	writeConfig(t, filepath.Join(home, ".uira", "config.json"),
		`{"autopilot":{"maxIterations":5},"contextGuard":{"maxWarnings":7}}`)
	writeConfig(t, filepath.Join(project, ".uira", "config.json"),
		`{"autopilot":{"maxIterations":10}}`)
	writeConfig(t, filepath.Join(project, ".uira", "config.local.json"),
		`{"autopilot":{"maxIterations":15}}`)

	cl := &ConfigLoader{projectDir: project, homeDir: home}
	cfg, err := cl.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// Local overrides project overrides home.
	if cfg.Autopilot == nil || *cfg.Autopilot.MaxIterations != 15 {
		t.Errorf("MaxIterations = %+v, want 15", cfg.Autopilot)
	}
	// Values only set at a lower layer survive.
	if cfg.ContextGuard == nil || *cfg.ContextGuard.MaxWarnings != 7 {
		t.Errorf("MaxWarnings = %+v, want 7", cfg.ContextGuard)
	}
}

func TestConfigLoader_MissingFilesAreSkipped(t *testing.T) {
	cl := &ConfigLoader{projectDir: t.TempDir(), homeDir: t.TempDir()}
	cfg, err := cl.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Autopilot != nil || cfg.ContextGuard != nil || cfg.Notepad != nil {
		t.Errorf("LoadConfig() = %+v, want empty config", cfg)
	}
}

func TestConfigLoader_MalformedFileFails(t *testing.T) {
	project := t.TempDir()
	writeConfig(t, filepath.Join(project, ".uira", "config.json"), `{broken`)

	cl := &ConfigLoader{projectDir: project, homeDir: t.TempDir()}
	if _, err := cl.LoadConfig(); err == nil {
		t.Error("LoadConfig() expected error for malformed file")
	}
}
