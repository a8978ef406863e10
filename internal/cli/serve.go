package cli

import (
	"context"
	"fmt"
	"time"

	"interviewlens/internal/config"
	"interviewlens/internal/observability"
	"interviewlens/internal/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview analysis HTTP server",
	Long: `Start an HTTP server that produces interview diagnostic reports.

Available endpoints:
- POST /api/analyze: Analyze a job description, resume and transcript
- GET /health: Health check endpoint
- GET /stats: Server and AI backend statistics

Documents may be passed inline or by http(s) URL, and by s3:// reference
when document.s3.enabled is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
}

// applyServeFlags overrides the listen address with explicitly set flags
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetString("port")
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	applyServeFlags(cmd, cfg)

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return err
	}

	om, err := observability.NewManager(cfg.Observability, Version)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Observability shutdown failed")
		}
	}()
	if err := om.StartPrometheusServer(); err != nil {
		return fmt.Errorf("failed to start Prometheus endpoint: %w", err)
	}

	p, err := newPipeline(ctx, cfg, om, logger, pipelineOptions{watchPrompt: true})
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	return server.NewServer(cfg, Version, p.analyzer, p.ai, om, logger).Start(ctx)
}
