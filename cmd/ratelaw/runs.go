package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ratelaw/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List the census runs in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipelineConfig()
		if err != nil {
			return err
		}
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.Runs(context.Background())
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return writeJSON(runs)
		}
		if len(runs) == 0 {
			fmt.Println("No runs stored.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %9s  %6s  %7s  %6s  %5s\n",
			"Run", "Started", "Reactions", "Models", "Skipped", "Failed", "NA")
		for _, r := range runs {
			fmt.Printf("%-36s  %-19s  %9d  %6d  %7d  %6d  %5d\n",
				r.ID, r.Started.Local().Format(time.DateTime), r.Reactions,
				r.Summary.Processed, r.Summary.Skipped, r.Summary.Failed, r.ModelsWithNA)
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(runsCmd)
}
