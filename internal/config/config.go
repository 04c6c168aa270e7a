package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DatabasePath is the location of the snapshot SQLite database
	DatabasePath string
	// JSONOutputDir is where export and --json mirrors are written
	JSONOutputDir string
	// CatalogBaseURL is the default catalog record URL the status command
	// uses when no --catalog-url flag is given
	CatalogBaseURL string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("DatabasePath", "./tsundoku.db")
	viper.SetDefault("JSONOutputDir", "./json/")

	// Get values from viper
	DatabasePath = viper.GetString("DatabasePath")
	JSONOutputDir = viper.GetString("JSONOutputDir")
	CatalogBaseURL = viper.GetString("CatalogBaseURL")
}

// SetDatabasePath overrides the snapshot database location (CLI flag)
func SetDatabasePath(path string) {
	DatabasePath = path
}
