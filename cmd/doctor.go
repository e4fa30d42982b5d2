package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"triage/internal/app"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the AI provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		if !runDoctor(appInstance, cmd.OutOrStdout()) {
			return fmt.Errorf("configuration is incomplete")
		}
		return nil
	},
}

// runDoctor prints the active provider settings and reports whether an
// analysis could be issued with them.
func runDoctor(a *app.App, w io.Writer) bool {
	cfg := a.Config
	fmt.Fprintf(w, "Provider: %s\n", cfg.Categorization.Provider)
	fmt.Fprintf(w, "Model:    %s\n", cfg.ModelName())
	if cfg.Categorization.BaseURL != "" {
		fmt.Fprintf(w, "Base URL: %s\n", cfg.Categorization.BaseURL)
	}
	if cfg.Categorization.PromptTemplate != "" {
		fmt.Fprintf(w, "Prompt:   %s\n", cfg.Categorization.PromptTemplate)
	} else {
		fmt.Fprintln(w, "Prompt:   built-in")
	}

	if p, ok := cfg.ModelPricing(); ok {
		fmt.Fprintf(w, "Pricing:  $%g input / $%g output per token\n", p.InputPerToken, p.OutputPerToken)
	} else {
		fmt.Fprintln(w, "Pricing:  not configured, usage is tracked without cost")
	}

	if cfg.Credential() == "" {
		fmt.Fprintf(w, "API key:  %s\n", color.RedString("missing"))
		return false
	}
	fmt.Fprintf(w, "API key:  %s\n", color.GreenString("set"))
	return true
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
