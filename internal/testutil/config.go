package testutil

import (
	"testing"

	"github.com/lepinkainen/tsundoku/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	DatabasePath   string
	JSONOutputDir  string
	CatalogBaseURL string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		DatabasePath:   config.DatabasePath,
		JSONOutputDir:  config.JSONOutputDir,
		CatalogBaseURL: config.CatalogBaseURL,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.DatabasePath = state.DatabasePath
	config.JSONOutputDir = state.JSONOutputDir
	config.CatalogBaseURL = state.CatalogBaseURL
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	// Save current config state
	state := SaveConfigState()

	// Reset viper
	viper.Reset()

	// Schedule restoration on test cleanup
	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}
