package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	settingsDirName  = ".sdkup"
	settingsFileName = "config.yaml"
)

// Settings holds user preferences stored at ~/.sdkup/config.yaml.
type Settings struct {
	// TargetDir is where packages are installed. Defaults to ~/agents/sdks.
	TargetDir string `yaml:"targetDir,omitempty"`
	// Catalog optionally points at a catalog file replacing the embedded one.
	Catalog string `yaml:"catalog,omitempty"`
	// CloneURLOverrides maps catalog source URLs to alternate clone URLs.
	CloneURLOverrides map[string]string `yaml:"cloneUrlOverrides,omitempty"`
}

// SettingsManager handles reading and writing the sdkup settings file.
type SettingsManager struct {
	dir string
	mu  sync.RWMutex
}

// NewSettingsManager creates a SettingsManager using the default
// location under the user's home directory.
func NewSettingsManager() (*SettingsManager, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting home directory: %w", err)
	}
	return &SettingsManager{dir: filepath.Join(home, settingsDirName)}, nil
}

// NewSettingsManagerWithDir creates a SettingsManager using a custom
// directory. Useful for testing.
func NewSettingsManagerWithDir(dir string) *SettingsManager {
	return &SettingsManager{dir: dir}
}

// Path returns the full path to the settings file.
func (sm *SettingsManager) Path() string {
	return filepath.Join(sm.dir, settingsFileName)
}

// Load reads settings from disk. A missing file yields defaults.
func (sm *SettingsManager) Load() (*Settings, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	data, err := os.ReadFile(sm.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if s.TargetDir == "" {
		s.TargetDir = defaultSettings().TargetDir
	}
	return &s, nil
}

// Save writes settings to disk, creating the directory if needed.
// The write is atomic: temp file then rename.
func (sm *SettingsManager) Save(s *Settings) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := os.MkdirAll(sm.dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	tmpPath := sm.Path() + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmpPath, sm.Path()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func defaultSettings() *Settings {
	return &Settings{TargetDir: "~/agents/sdks"}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	} else if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return p
}
