package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"triage/internal/app"
	"triage/internal/clix"
	"triage/internal/services"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Categorize the files of a folder with the AI service",
	Long: `Selects the files of a folder, sends their names to the configured AI
provider in a single request and prints the resulting categories.
Use --category to show only the files of one category.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		out := cmd.OutOrStdout()
		opts := clix.ParseScanOptions(cmd.Flags(), appInstance.ScanOptions())
		if _, err := selectFolder(ctx, appInstance, args[0], opts, out); err != nil {
			return err
		}

		if err := runAnalysis(ctx, appInstance, out); err != nil {
			return err
		}

		category := clix.ParseCategory(cmd.Flags())
		renderFiles(out, appInstance.Registry.FilterBy(category))
		renderCategories(out, appInstance.Registry.CategoryCounts())
		return printUsage(ctx, appInstance, out)
	},
}

// runAnalysis runs one analysis cycle and reports the outcome. Failures are
// returned with the message a user should see.
func runAnalysis(ctx context.Context, a *app.App, w io.Writer) error {
	outcome, err := a.AnalysisService.Analyze(ctx)
	if err != nil {
		fmt.Fprintln(w, color.RedString("Analysis failed: %s", services.UserMessage(err)))
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Fprintf(w, "Categorized %d of %d files in %s\n",
		outcome.Merge.Updated, outcome.Submitted, outcome.Duration.Round(time.Millisecond))
	if outcome.Remaining > 0 {
		fmt.Fprintln(w, color.YellowString("%d files were not categorized by the AI service.", outcome.Remaining))
	}
	return nil
}

func printUsage(ctx context.Context, a *app.App, w io.Writer) error {
	total, err := a.CostTracker.TotalCost(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute cost: %w", err)
	}
	events, err := a.CostTracker.Events(ctx)
	if err != nil {
		return fmt.Errorf("failed to list usage: %w", err)
	}

	var in, out int
	for _, e := range events {
		in += e.InputTokens
		out += e.OutputTokens
	}
	fmt.Fprintf(w, "Usage: %d input tokens, %d output tokens, estimated cost $%.6f\n", in, out, total)
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addScanFlags(analyzeCmd)
	analyzeCmd.Flags().StringP("category", "c", "", "Only show files of this category")
}
