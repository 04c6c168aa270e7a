package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/lepinkainen/tsundoku/internal/config"
	"github.com/lepinkainen/tsundoku/internal/fileutil"
	"github.com/lepinkainen/tsundoku/internal/ingest"
	"github.com/lepinkainen/tsundoku/internal/library"
)

// Run imports one primary-source payload file into the store.
func (c *ImportSeriesCmd) Run() error {
	var payload ingest.SeriesPayload
	if err := fileutil.ReadJSONFile(c.Input, &payload); err != nil {
		return err
	}
	if payload.Title == "" {
		return fmt.Errorf("payload has no series title: %s", c.Input)
	}

	orch, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := orch.CreateEntitiesFromPrimarySource(payload)
	if err != nil {
		return fmt.Errorf("failed to import %q: %w", payload.Title, err)
	}

	slog.Info("Imported series",
		"series", result.Series.ID,
		"title", result.Series.Title,
		"volumes", len(result.Volumes),
		"related", len(result.Related))

	if c.JSON {
		out := filepath.Join(config.JSONOutputDir, "import-"+result.Series.ID+".json")
		if _, err := fileutil.WriteJSONFile(result, out, true); err != nil {
			return err
		}
	}
	return nil
}

// Run imports one fallback catalog-search payload file into the store.
func (c *ImportCatalogCmd) Run() error {
	var volumes []ingest.FallbackVolume
	if err := fileutil.ReadJSONFile(c.Input, &volumes); err != nil {
		return err
	}

	orch, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := orch.CreateEntitiesFromFallbackSource(c.Title, volumes, library.MediaType(c.MediaType))
	if err != nil {
		return fmt.Errorf("failed to import %q: %w", c.Title, err)
	}

	slog.Info("Imported series from catalog data",
		"series", result.Series.ID,
		"title", result.Series.Title,
		"volumes", len(result.Volumes))
	return nil
}
