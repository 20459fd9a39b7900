// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ratelaw/internal/census"
	"github.com/pdiddy/ratelaw/internal/classify"
	"github.com/pdiddy/ratelaw/internal/model"
	"github.com/pdiddy/ratelaw/internal/store"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [model.yaml...]",
	Short: "Classify every rate law of a model corpus",
	Long: `Classify loads model documents, either the files given as arguments or
every *.yaml file in --models-dir, labels each reaction's rate law and
prints the label distribution. The run is saved to the census database
unless --no-store is given.

Models that fail to load are reported and counted; the command exits
with an error when any did.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := slog.Default()
	cs := census.New(cfg.Census, classify.NewFromConfig(cfg.Classify, logger), logger)
	loader := model.NewLoader(logger)

	var rep *census.Report
	if len(args) > 0 {
		models := make([]*model.Model, 0, len(args))
		for _, path := range args {
			m, err := loader.Load(path)
			if err != nil {
				return err
			}
			models = append(models, m)
		}
		rep, err = cs.Run(ctx, models, os.Stdout)
	} else {
		rep, err = cs.RunDir(ctx, loader, os.Stdout)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	printDistribution(os.Stdout, rep.Overall)

	noStore, _ := cmd.Flags().GetBool("no-store")
	if !noStore {
		s, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveRun(ctx, rep); err != nil {
			return err
		}
		fmt.Printf("\nSaved run %s to %s\n", rep.RunID, cfg.Store.Dir)
	}

	if rep.Summary.HasFailures() {
		return fmt.Errorf("%d model(s) failed to load", rep.Summary.Failed)
	}
	return nil
}

func init() {
	f := classifyCmd.Flags()
	f.String("models-dir", "models", "directory of model documents")
	f.Int("workers", 0, "models classified concurrently (0 = number of CPUs)")
	f.Duration("timeout", 5*time.Second, "symbolic work allowed per rate law (0 = unbounded)")
	f.Int("max-terms", 4096, "largest polynomial expansion attempted (0 = unbounded)")
	f.Bool("polynomial", true, "test for polynomial rate laws before giving up")
	f.String("metrics-file", "", "write Prometheus counters to this file after the run")
	f.Bool("no-store", false, "do not save the run to the census database")

	viper.BindPFlag("census.models_dir", f.Lookup("models-dir"))
	viper.BindPFlag("census.workers", f.Lookup("workers"))
	viper.BindPFlag("census.metrics_file", f.Lookup("metrics-file"))
	viper.BindPFlag("classify.timeout", f.Lookup("timeout"))
	viper.BindPFlag("classify.max_terms", f.Lookup("max-terms"))
	viper.BindPFlag("classify.polynomial", f.Lookup("polynomial"))

	rootCmd.AddCommand(classifyCmd)
}
