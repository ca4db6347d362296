package cli

import (
	"context"
	"fmt"

	"talentscout/internal/ai"
	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/extract"
	"talentscout/internal/query"
	"talentscout/internal/server"
	"talentscout/internal/store"
	"talentscout/internal/worker"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for job processing and candidate sourcing",
	Long: `Start an HTTP server that provides REST API endpoints for the sourcing pipeline.

Available endpoints:
- POST /api/v1/process: Structure a job document into a canonical record
- POST /api/v1/prompts: Synthesize candidate search prompts from a record
- POST /api/v1/rank: Rank candidate profiles against a job prompt
- POST /api/v1/score: Score a resume against a job for keyword overlap
- /api/v1/jobs: Async sourcing jobs (requires job storage)
- GET /health: Health check endpoint
- GET /stats: Server statistics and rate limiting info

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("server.tls.mode", "tls-mode")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
	bindFlag("server.tls.cafile", "ca-file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Validate TLS configuration after applying overrides
	tempConfig := &config.Config{Server: cfg.Server}
	if err := tempConfig.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	serverCfg := server.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        Version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: int64(cfg.App.MaxFileSize),
		RateLimit:      &cfg.Server.RateLimit,
	}
	srv := server.NewServer(cfg, serverCfg, logger)

	if cfg.Store.Enabled {
		st, err := buildStore(cmd.Context(), cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize job store: %w", err)
		}
		srv.Store = st

		if cfg.Worker.Enabled {
			srv.Worker = buildWorker(st, cfg, logger)
		}
	}

	return srv.Start()
}

// buildStore creates the configured store implementation
func buildStore(ctx context.Context, cfg *config.Config, logger *errors.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case "", "postgres":
		return store.NewPostgresStore(ctx, &cfg.Store, logger)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// buildWorker assembles the background worker. AI service creation failures
// degrade to the deterministic fallback pipeline instead of disabling the
// worker.
func buildWorker(st store.Store, cfg *config.Config, logger *errors.Logger) *worker.Worker {
	structureAIConfig := cfg.GetStructureConfig()
	var structureProvider ai.AIProvider
	if svc, err := ai.NewService(&structureAIConfig, "structure", logger); err != nil {
		logger.Warn("Failed to create structure AI service for worker, using rule-based extraction",
			"error", err.Error())
	} else {
		structureProvider = svc.Provider
	}

	promptsAIConfig := cfg.GetPromptsConfig()
	var promptsProvider ai.AIProvider
	if svc, err := ai.NewService(&promptsAIConfig, "prompts", logger); err != nil {
		logger.Warn("Failed to create prompts AI service for worker, using deterministic templates",
			"error", err.Error())
	} else {
		promptsProvider = svc.Provider
	}

	return worker.New(
		st,
		extract.NewStructurer(structureProvider, logger),
		query.NewSynthesizer(promptsProvider, logger),
		&cfg.Worker,
		logger,
	)
}
