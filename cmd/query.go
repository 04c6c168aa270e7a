package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lepinkainen/tsundoku/internal/availability"
	"github.com/lepinkainen/tsundoku/internal/config"
	"github.com/lepinkainen/tsundoku/internal/fileutil"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// Run resolves a query to an entity and prints it. It never creates.
func (c *ResolveCmd) Run() error {
	orch, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if c.Volume > 0 {
		// volume-number hint narrows an omnibus ISBN to one volume
		match, ok := orch.ResolveByISBNWithVolume(c.Query, c.Volume)
		if !ok {
			return fmt.Errorf("no match for %q volume %d", c.Query, c.Volume)
		}
		return printJSON(match)
	}

	entity, ok := orch.ResolveEntity(c.Query)
	if !ok {
		return fmt.Errorf("no match for %q", c.Query)
	}
	return printJSON(entity)
}

// statusOutput is the outbound shape for the status command.
type statusOutput struct {
	Status availability.DisplayStatus `json:"status"`
	Label  string                     `json:"label"`
	Totals *availability.CopyTotals   `json:"totals,omitempty"`
}

// Run computes the display status for one volume from payload files.
func (c *StatusCmd) Run() error {
	var editions []availability.EditionInfo
	if err := fileutil.ReadJSONFile(c.Editions, &editions); err != nil {
		return err
	}

	var totals *availability.CopyTotals
	if c.Copies != "" {
		var copies []availability.Copy
		if err := fileutil.ReadJSONFile(c.Copies, &copies); err != nil {
			return err
		}
		t := availability.ComputeCopyTotals(copies)
		totals = &t
	}

	status := availability.VolumeDisplayStatus(editions, totals, c.catalogURL(), time.Now())
	return printJSON(statusOutput{
		Status: status,
		Label:  status.Label(),
		Totals: totals,
	})
}

// catalogURL falls back to the configured catalog base URL when the flag
// is not given.
func (c *StatusCmd) catalogURL() string {
	if c.CatalogURL != "" {
		return c.CatalogURL
	}
	return config.CatalogBaseURL
}

// Run dumps the three entity collections to JSON files.
func (c *ExportCmd) Run() error {
	outDir := c.Output
	if outDir == "" {
		outDir = config.JSONOutputDir
	}

	orch, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	store := orch.Store()

	exports := []struct {
		name string
		data any
	}{
		{"series.json", store.AllSeries()},
		{"volumes.json", store.AllVolumes()},
		{"editions.json", store.AllEditions()},
	}
	for _, e := range exports {
		path := filepath.Join(outDir, e.name)
		if _, err := fileutil.WriteJSONFile(e.data, path, true); err != nil {
			return err
		}
		slog.Info("Exported collection", "file", path)
	}
	return nil
}
