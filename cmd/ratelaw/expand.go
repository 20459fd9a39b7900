package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ratelaw/internal/classify"
	"github.com/pdiddy/ratelaw/internal/model"
)

var expandCmd = &cobra.Command{
	Use:   "expand <model.yaml> [reaction-id...]",
	Short: "Show how each rate law of a model is expanded and labelled",
	Long: `Expand loads one model document and prints, for each reaction (or only
the named ones), the rate law as written, with function calls inlined,
in simplified form, the identifiers it mentions, and its label.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

// expansion is one reaction as printed by expand.
type expansion struct {
	Reaction   string   `json:"reaction"`
	Equation   string   `json:"equation"`
	Formula    string   `json:"formula"`
	Expanded   string   `json:"expanded"`
	Simplified string   `json:"simplified"`
	Symbols    []string `json:"symbols"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	Form       string   `json:"form,omitempty"`
}

func runExpand(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	logger := slog.Default()
	m, err := model.NewLoader(logger).Load(args[0])
	if err != nil {
		return err
	}

	wanted := make(map[string]bool, len(args)-1)
	for _, id := range args[1:] {
		wanted[id] = true
	}

	ctx := context.Background()
	c := classify.NewFromConfig(cfg.Classify, logger)
	var out []expansion
	for _, r := range m.Reactions {
		if len(wanted) > 0 && !wanted[r.ID] {
			continue
		}
		law := c.Prepare(ctx, r.Law.Expanded)
		res := c.Classify(ctx, law, m.Context(r))
		out = append(out, expansion{
			Reaction:   r.ID,
			Equation:   r.Equation(),
			Formula:    r.Law.Formula,
			Expanded:   law.Expanded,
			Simplified: law.Simplified,
			Symbols:    r.Law.Symbols,
			Label:      string(res.Label),
			Type:       res.Type().String(),
			Form:       res.Form,
		})
	}
	if len(out) == 0 {
		return fmt.Errorf("no matching reactions in %s", args[0])
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, e := range out {
		fmt.Printf("%s  %s\n", e.Reaction, e.Equation)
		fmt.Printf("  formula:    %s\n", e.Formula)
		fmt.Printf("  expanded:   %s\n", e.Expanded)
		fmt.Printf("  simplified: %s\n", e.Simplified)
		fmt.Printf("  symbols:    %v\n", e.Symbols)
		fmt.Printf("  label:      %s (%s)\n", e.Label, e.Type)
		if e.Form != "" {
			fmt.Printf("  form:       %s\n", e.Form)
		}
	}
	return nil
}

func init() {
	expandCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(expandCmd)
}
