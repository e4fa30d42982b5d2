package cmd

import (
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"triage/internal/apihandlers"
	"triage/internal/clix"
)

var (
	serveAddr string // Listen address
	servePort string // Listen port
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Run Triage as an HTTP API server",
	Long: `Starts an HTTP server exposing file selection, analysis and category
filtering via a RESTful API, for use by a browser UI or other tools.
An optional directory is selected before the server starts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			opts := clix.ParseScanOptions(cmd.Flags(), appInstance.ScanOptions())
			if _, err := selectFolder(cmd.Context(), appInstance, args[0], opts, cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.Default() // Includes logger and recovery middleware
		apihandlers.RegisterRoutes(router, apihandlers.NewAPIHandler(appInstance))

		addr := appInstance.Config.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		port := appInstance.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		listenAddr := fmt.Sprintf("%s:%s", addr, port)
		log.Infof("Starting Triage API server on http://%s", listenAddr)

		// router.Run blocks unless an error occurs
		if err := router.Run(listenAddr); err != nil {
			log.Errorf("Failed to run API server: %v", err)
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	addScanFlags(serveCmd)
}
