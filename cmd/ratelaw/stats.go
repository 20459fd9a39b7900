// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ratelaw/internal/census"
	"github.com/pdiddy/ratelaw/internal/store"
	"github.com/pdiddy/ratelaw/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report the label distribution of a stored run",
	Long: `Stats reads a run from the census database (the latest unless --run is
given) and prints, for each label, its share of all reactions and its
mean share per model with the standard error.

--reactants and --products restrict the report to one reaction type
(use 3 for "more than two"). --types prints the reaction-type table and
--top only the most frequent label(s).`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
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
	rep, err := s.Report(ctx, runID, f)
	if err != nil {
		return err
	}

	d := rep.Overall
	if f.Type != nil {
		d = rep.ForType(*f.Type)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	top, _ := cmd.Flags().GetBool("top")
	showTypes, _ := cmd.Flags().GetBool("types")

	switch {
	case top:
		labels := d.TopLabels()
		if jsonOutput {
			return writeJSON(labels)
		}
		if len(labels) == 0 {
			fmt.Println("No reactions.")
			return nil
		}
		for _, l := range labels {
			fmt.Printf("%s\t%s\n", l, l.Description())
		}
	case showTypes:
		if jsonOutput {
			return writeJSON(map[string]any{"counts": rep.TypeCounts, "per_model": rep.TypePerModel})
		}
		printTypeTables(os.Stdout, rep)
	default:
		if jsonOutput {
			return writeJSON(d)
		}
		fmt.Printf("Run %s\n\n", rep.RunID)
		printDistribution(os.Stdout, d)
		fmt.Printf("\nModels with unclassified reactions: %d\n", rep.ModelsWithNA)
	}
	return nil
}

// printDistribution writes one row per label.
func printDistribution(w io.Writer, d census.Distribution) {
	fmt.Fprintf(w, "%-6s  %-38s  %7s  %8s  %9s  %9s\n",
		"Label", "Mechanism", "Count", "Percent", "PerModel", "StdErr")
	fmt.Fprintln(w, strings.Repeat("-", 88))
	for _, s := range d.Labels {
		fmt.Fprintf(w, "%-6s  %-38s  %7d  %7.2f%%  %8.2f%%  %8.2f%%\n",
			s.Label, s.Label.Description(), s.Count,
			100*s.Percentage, 100*s.PerModelMean, 100*s.PerModelStdErr)
	}
	fmt.Fprintf(w, "\n%d reactions in %d models\n", d.Reactions, d.Models)
}

// printTypeTables writes the products-by-reactants count table and its
// per-model average.
func printTypeTables(w io.Writer, rep *census.Report) {
	header := func(title string) {
		fmt.Fprintf(w, "%s\n%-7s", title, "")
		for r := range types.NumBuckets {
			fmt.Fprintf(w, "  %8s", types.Bucket(r).ReactantHeader())
		}
		fmt.Fprintln(w)
	}

	header("Reactions")
	for p := range types.NumBuckets {
		fmt.Fprintf(w, "%-7s", types.Bucket(p).ProductHeader())
		for r := range types.NumBuckets {
			fmt.Fprintf(w, "  %8d", rep.TypeCounts[p][r])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	header("Reactions per model")
	for p := range types.NumBuckets {
		fmt.Fprintf(w, "%-7s", types.Bucket(p).ProductHeader())
		for r := range types.NumBuckets {
			fmt.Fprintf(w, "  %8.2f", rep.TypePerModel[p][r])
		}
		fmt.Fprintln(w)
	}
}

// --- shared helpers ---

func runFromFlags(ctx context.Context, cmd *cobra.Command, s *store.Store) (string, error) {
	runID, _ := cmd.Flags().GetString("run")
	if runID != "" {
		return runID, nil
	}
	return s.LatestRun(ctx)
}

func filterFromFlags(cmd *cobra.Command) (store.Filter, error) {
	modelID, _ := cmd.Flags().GetString("model")
	label, _ := cmd.Flags().GetString("label")
	reactants, _ := cmd.Flags().GetInt("reactants")
	products, _ := cmd.Flags().GetInt("products")

	f := store.Filter{Model: modelID}
	if label != "" {
		l, err := types.ParseLabel(strings.ToUpper(label))
		if err != nil {
			return f, err
		}
		f.Label = l
	}

	if reactants >= 0 || products >= 0 {
		if reactants < 0 || products < 0 {
			return f, fmt.Errorf("--reactants and --products must be given together")
		}
		r, err := types.ParseBucket(reactants)
		if err != nil {
			return f, err
		}
		p, err := types.ParseBucket(products)
		if err != nil {
			return f, err
		}
		f.Type = &types.ReactionType{Reactants: r, Products: p}
	}
	return f, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("run", "", "run id (default: latest run)")
	cmd.Flags().String("model", "", "only reactions of this model")
	cmd.Flags().Int("reactants", -1, "only reactions with this many reactants (3 = more than two)")
	cmd.Flags().Int("products", -1, "only reactions with this many products (3 = more than two)")
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	addFilterFlags(statsCmd)
	statsCmd.Flags().Bool("top", false, "print only the most frequent label(s)")
	statsCmd.Flags().Bool("types", false, "print the reaction-type tables")
	statsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(statsCmd)
}
