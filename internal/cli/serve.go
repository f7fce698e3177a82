package cli

import (
	"fastresume/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the analysis, career and layout operations.

Available endpoints:
- POST /analyze: Score a resume against a job description
- POST /predict: Predict career paths
- POST /strategy: Build a career strategy for a target role
- POST /layout/compose, /layout/delete-page, /layout/move, /layout/settings
- GET/POST/DELETE /history/{kind}, DELETE /history/{kind}/{id}
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info`,
	RunE: runServe,
}

var (
	servePort string
	serveHost string
)

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}

	history := openHistory(cfg, logger)
	defer closeHistory(history, logger)

	serverCfg := server.ServerConfigFrom(cfg, Version)
	serverCfg.History = history
	return server.NewServer(cfg, serverCfg, logger).Start(cmd.Context())
}
