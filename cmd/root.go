package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/lepinkainen/tsundoku/internal/config"
	"github.com/lepinkainen/tsundoku/internal/ingest"
	"github.com/lepinkainen/tsundoku/internal/library"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the tsundoku application
type CLI struct {
	// Global flags
	Database string `help:"Path to the snapshot SQLite database" default:"./tsundoku.db"`

	Import  ImportCmd  `cmd:"" help:"Import series data from source payload files"`
	Resolve ResolveCmd `cmd:"" help:"Look up a series, volume or edition without creating anything"`
	Status  StatusCmd  `cmd:"" help:"Compute the display status for a volume from edition and copy data"`
	Export  ExportCmd  `cmd:"" help:"Export the entity collections as JSON files"`
}

// ImportCmd represents the import command and its subcommands
type ImportCmd struct {
	Series  ImportSeriesCmd  `cmd:"" help:"Import a primary-source (wiki) series payload"`
	Catalog ImportCatalogCmd `cmd:"" help:"Import a fallback catalog-search payload"`
}

// ImportSeriesCmd imports one primary-source payload file
type ImportSeriesCmd struct {
	Input string `short:"f" required:"" help:"Path to the primary-source JSON payload"`
	JSON  bool   `help:"Mirror the created entities to the JSON output directory"`
}

// ImportCatalogCmd imports one fallback-source payload file
type ImportCatalogCmd struct {
	Input     string `short:"f" required:"" help:"Path to the fallback-source JSON payload (array of volumes)"`
	Title     string `short:"t" required:"" help:"Series title the payload belongs to"`
	MediaType string `help:"Media type of the series" default:"manga" enum:"manga,light_novel,artbook,guidebook"`
}

// ResolveCmd looks an entity up by durable id, ISBN or title
type ResolveCmd struct {
	Query  string `arg:"" help:"Entity id (s_/v_/e_ prefix), ISBN, or series title"`
	Volume int    `help:"Volume-number hint for ISBNs that resolve to an omnibus" default:"0"`
}

// StatusCmd computes the display status for one volume
type StatusCmd struct {
	Editions   string `required:"" help:"Path to a JSON array of editions (format, language, release_date)"`
	Copies     string `help:"Path to a JSON array of library copies (status per copy); omit when the volume was never matched"`
	CatalogURL string `help:"Catalog record URL, when the volume is indexed in the catalog (defaults to the configured CatalogBaseURL)"`
}

// ExportCmd dumps the store's collections as JSON
type ExportCmd struct {
	Output string `short:"o" help:"Directory to write series/volumes/editions JSON into (defaults to the JSON output dir)"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("tsundoku"),
		kong.Description("Track manga and light novel series, volumes and editions across sources."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("DatabasePath", "./tsundoku.db")
	viper.SetDefault("JSONOutputDir", "./json/")

	// Enable environment variable support
	viper.AutomaticEnv()
	if err := viper.BindEnv("CatalogBaseURL", "CATALOG_BASE_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	if cli.Database != "" {
		config.SetDatabasePath(cli.Database)
		viper.Set("DatabasePath", cli.Database)
	}
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("TSUNDOKU_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}

// openStore opens the snapshot store and builds the orchestrator on top of
// it. The returned close func must be deferred by the caller.
func openStore() (*ingest.Orchestrator, func(), error) {
	store := library.NewStore(config.DatabasePath)
	if err := store.Open(); err != nil {
		return nil, nil, fmt.Errorf("failed to open store at %s: %w", config.DatabasePath, err)
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close store", "error", err)
		}
	}
	return ingest.NewOrchestrator(library.NewResolver(store)), closeFn, nil
}
