package cmd

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"triage/internal/app"
	"triage/internal/clix"
	"triage/internal/fileingest"
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "List the files a folder selection would pick up",
	Long: `Walks a folder the same way a browser folder picker does and lists the
files that would be submitted for categorization. Nothing is sent to the AI service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		opts := clix.ParseScanOptions(cmd.Flags(), appInstance.ScanOptions())
		if _, err := selectFolder(cmd.Context(), appInstance, args[0], opts, cmd.OutOrStdout()); err != nil {
			return err
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return err
		}
		renderFiles(cmd.OutOrStdout(), clix.Page(appInstance.Registry.All(), pagination))
		return nil
	},
}

// selectFolder discovers the files under dir and registers them, as one
// selection event.
func selectFolder(ctx context.Context, a *app.App, dir string, opts fileingest.Options, w io.Writer) (int, error) {
	log.Debugf("Scanning %s (hidden=%t, max=%d)", dir, opts.IncludeHidden, opts.MaxFiles)
	handles, err := fileingest.DiscoverFiles(ctx, dir, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	added := a.AnalysisService.AddFiles(handles)
	fmt.Fprintf(w, "Selected %d files (%d new) from %s\n", len(handles), added, dir)
	return added, nil
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("hidden", false, "Include hidden files and folders")
	cmd.Flags().Int("max-files", 0, "Stop after this many files (0 for no limit)")
}

func init() {
	rootCmd.AddCommand(scanCmd)
	addScanFlags(scanCmd)
	scanCmd.Flags().IntP("limit", "l", 0, "Number of files to display (0 for all)")
	scanCmd.Flags().IntP("offset", "o", 0, "Number of files to skip")
}
