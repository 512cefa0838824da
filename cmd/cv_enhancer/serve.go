package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/analysis"
	"github.com/jonathan/cv-enhancer/internal/coverletter"
	"github.com/jonathan/cv-enhancer/internal/db"
	"github.com/jonathan/cv-enhancer/internal/ingestion"
	"github.com/jonathan/cv-enhancer/internal/rendering"
	"github.com/jonathan/cv-enhancer/internal/server"
	"github.com/jonathan/cv-enhancer/internal/server/ratelimit"
	"github.com/jonathan/cv-enhancer/internal/suggestions"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the CV, cover letter, job application and export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT and the config file)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending database migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	jwtConfig, err := cfg.JWT()
	if err != nil {
		return err
	}
	passwordConfig, err := cfg.Password()
	if err != nil {
		return err
	}

	ctx := context.Background()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if serveMigrate {
		if err := applyMigrations(ctx, database, log); err != nil {
			return err
		}
	}

	client, err := newLLMClient(ctx, cfg.LLM, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	files, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open file storage: %w", err)
	}

	jobs, closeJobs := newJobExtractor(ctx, cfg, log)
	defer closeJobs()

	compiler := rendering.NewCompiler(log)
	compiler.Binary = cfg.Export.LatexBinary
	compiler.Timeout = cfg.Export.Timeout

	timeout := cfg.LLM.Timeout
	deps := server.Deps{
		Store:    database,
		JWT:      jwtConfig,
		Password: passwordConfig,
		Engine: suggestions.NewEngine(suggestions.Config{
			Model:  suggestions.NewModelSuggester(client, timeout, log),
			Logger: log,
		}),
		Analysis:  analysis.NewService(client, timeout, log),
		Letters:   coverletter.NewGenerator(client, timeout, log),
		Jobs:      jobs,
		Files:     files,
		Exporter:  compiler,
		RateLimit: ratelimit.FromConfig(cfg.RateLimit),
		Logger:    log,
		Version:   version,
		Port:      cfg.Port,
	}
	// A nil *Structurer must not become a non-nil interface.
	if structurer := ingestion.NewStructurer(client, timeout, log); structurer != nil {
		deps.Structurer = structurer
	}

	srv, err := server.New(deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.Bool("model_enabled", client != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled))
	return srv.Start()
}
