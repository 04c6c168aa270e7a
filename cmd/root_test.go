package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/tsundoku/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func resetCmdState(t *testing.T) {
	origDatabase := config.DatabasePath
	origCatalogBaseURL := config.CatalogBaseURL

	t.Cleanup(func() {
		config.DatabasePath = origDatabase
		config.CatalogBaseURL = origCatalogBaseURL
		viper.Reset()
	})

	viper.Reset()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"tsundoku"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tsundoku"),
		kong.Description("Track manga and light novel series, volumes and editions across sources."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{Database: "/tmp/tsundoku-test.db"}
	updateGlobalConfig(cli)

	assert.Equal(t, "/tmp/tsundoku-test.db", config.DatabasePath)
	assert.Equal(t, "/tmp/tsundoku-test.db", viper.GetString("DatabasePath"))
}

func TestImportSeriesCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "import", "series", "-f", "payload.json", "--json")

	assert.Equal(t, "payload.json", cli.Import.Series.Input)
	assert.True(t, cli.Import.Series.JSON)
}

func TestImportCatalogCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "import", "catalog", "-f", "results.json", "-t", "Spice and Wolf", "--media-type", "light_novel")

	assert.Equal(t, "results.json", cli.Import.Catalog.Input)
	assert.Equal(t, "Spice and Wolf", cli.Import.Catalog.Title)
	assert.Equal(t, "light_novel", cli.Import.Catalog.MediaType)
}

func TestResolveCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "resolve", "9781975319298", "--volume", "3")

	assert.Equal(t, "9781975319298", cli.Resolve.Query)
	assert.Equal(t, 3, cli.Resolve.Volume)
}

func TestStatusCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "status", "--editions", "ed.json", "--copies", "copies.json", "--catalog-url", "https://catalog.example.org/record/1")

	assert.Equal(t, "ed.json", cli.Status.Editions)
	assert.Equal(t, "copies.json", cli.Status.Copies)
	assert.Equal(t, "https://catalog.example.org/record/1", cli.Status.CatalogURL)
}

func TestStatusCatalogURLFallback(t *testing.T) {
	resetCmdState(t)

	cmd := &StatusCmd{}
	config.CatalogBaseURL = "https://catalog.example.org"
	assert.Equal(t, "https://catalog.example.org", cmd.catalogURL())

	// an explicit flag always wins over the configured base URL
	cmd.CatalogURL = "https://catalog.example.org/record/9"
	assert.Equal(t, "https://catalog.example.org/record/9", cmd.catalogURL())
}

func TestInitLogging(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
	}{
		{"default", ""},
		{"debug", "debug"},
		{"warn", "warn"},
		{"error", "error"},
		{"invalid", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("TSUNDOKU_LOG_LEVEL", tt.envValue)
			}
			// Should not panic
			initLogging()
		})
	}
}
