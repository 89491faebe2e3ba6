package cmd

import (
	"fmt"

	"github.com/sdkup/sdkup/internal/core"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	manager  *core.SettingsManager
	settings *core.Settings
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	manager, err := core.NewSettingsManager()
	if err != nil {
		return nil, fmt.Errorf("initializing settings: %w", err)
	}

	settings, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	return &deps{
		manager:  manager,
		settings: settings,
	}, nil
}
