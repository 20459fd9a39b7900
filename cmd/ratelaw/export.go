// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ratelaw/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored run to YAML or JSON",
	Long: `Export writes a run (the latest unless --run is given) to export.yaml or
export.json in the store directory: the label distribution, the
reaction-type tables and every classified reaction. Filter flags export
a subset.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	s, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	runID, err := runFromFlags(ctx, cmd, s)
	if err != nil {
		return err
	}
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(ctx, runID, f)
	case "json":
		path, err = s.ExportJSON(ctx, runID, f)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported run %s to %s\n", runID, path)
	return nil
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("label", "", "only reactions with this label (e.g. MM, HILL, NA)")

	rootCmd.AddCommand(exportCmd)
}
