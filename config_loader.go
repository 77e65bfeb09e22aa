package uira

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// ConfigLoader loads and merges pipeline configuration files.
type ConfigLoader struct {
	projectDir string
	homeDir    string
}

// NewConfigLoader creates a loader rooted at the current working directory.
func NewConfigLoader() (*ConfigLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	projectDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return &ConfigLoader{projectDir: projectDir, homeDir: homeDir}, nil
}

// NewConfigLoaderAt creates a loader rooted at an explicit project directory.
func NewConfigLoaderAt(projectDir string) (*ConfigLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &ConfigLoader{projectDir: projectDir, homeDir: homeDir}, nil
}

// ConfigPaths returns the search paths, lowest precedence first.
func (cl *ConfigLoader) ConfigPaths() []string {
	return []string{
		filepath.Join(cl.homeDir, ".uira", "config.json"),          // user global
		filepath.Join(cl.projectDir, ".uira", "config.json"),       // project
		filepath.Join(cl.projectDir, ".uira", "config.local.json"), // local overrides
	}
}

// LoadConfig loads and merges configuration from the standard paths.
// Missing files are skipped silently.
func (cl *ConfigLoader) LoadConfig() (*AppConfig, error) {
	config := NewAppConfig()
	for _, path := range cl.ConfigPaths() {
		if err := cl.loadAndMergeConfig(config, path); err != nil {
			return nil, err
		}
	}
	return config, nil
}

func (cl *ConfigLoader) loadAndMergeConfig(config *AppConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fileConfig AppConfig
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	config.Merge(&fileConfig)
	return nil
}
