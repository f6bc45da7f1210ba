package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ChristianNyamekye/folioassist/internal/chat"
	"github.com/ChristianNyamekye/folioassist/internal/chat/persona"
	"github.com/ChristianNyamekye/folioassist/internal/chat/ratelimit"
	"github.com/ChristianNyamekye/folioassist/internal/llm/driver"
	"github.com/ChristianNyamekye/folioassist/internal/llm/driver/openai"
	"github.com/ChristianNyamekye/folioassist/internal/observability"
	"github.com/ChristianNyamekye/folioassist/internal/server"
	"github.com/ChristianNyamekye/folioassist/internal/server/handlers"
)

// ledgerHealthChecker verifies the gatekeeper answers.
type ledgerHealthChecker struct {
	ledger ratelimit.Ledger
}

func (c ledgerHealthChecker) CheckHealth(ctx context.Context) error {
	// A probe admission against a reserved client id. The entry is swept
	// like any other.
	_, err := c.ledger.Allow(ctx, "healthcheck")
	return err
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the chat HTTP server with graceful shutdown support.

Ctrl+C (SIGINT) or SIGTERM drains in-flight requests before exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := observability.NewServerLogger(cfg.Logging.Level)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		registry, err := personaRegistry(cfg.Persona.Dir)
		if err != nil {
			return err
		}
		doc, err := registry.Get(cfg.Persona.Slug)
		if err != nil {
			return err
		}

		ledger, stopLedger, err := ratelimit.New(ctx, cfg.RateLimit)
		if err != nil {
			return err
		}
		defer stopLedger()

		promReg := prometheus.NewRegistry()
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		chatMetrics := observability.NewChatMetrics(promReg)
		httpMetrics := observability.NewHTTPMetrics(promReg)

		svc := chat.NewService(
			ledger,
			doc,
			cfg.Provider.Credential,
			func(apiKey string) driver.Driver {
				client := openai.NewClient(cfg.Provider.BaseURL, apiKey)
				client.Timeout = cfg.Provider.Timeout
				return client
			},
			logger,
			chatMetrics,
		)

		health := handlers.NewHealthManager(versionInfo.Version)
		health.RegisterChecker("rate_limit_ledger", ledgerHealthChecker{ledger: ledger})
		health.RegisterChecker("persona", handlers.HealthCheckerFunc(func(ctx context.Context) error {
			if svc.Persona() == "" {
				return errors.New("persona document not loaded")
			}
			return nil
		}))
		// A missing credential degrades readiness rather than failing it:
		// the process is healthy, the deployment is misconfigured.
		health.RegisterChecker("provider_credential", handlers.HealthCheckerFunc(func(ctx context.Context) error {
			if cfg.Provider.Credential() == "" {
				return fmt.Errorf("provider credential not configured: %w", handlers.ErrDegraded)
			}
			return nil
		}))

		opts := server.Options{
			Chat:   svc,
			Health: health,
			Logger: logger,
		}
		if cfg.Metrics.Enabled {
			opts.Metrics = httpMetrics
			opts.MetricsGatherer = promReg
		}
		srv := server.New(cfg.Server, opts)

		logger.Info("initializing server",
			zap.String("version", versionInfo.Version),
			zap.String("persona", doc.Config.Slug),
			zap.String("rate_limit_store", cfg.RateLimit.Store),
			zap.String("host", cfg.Server.Host),
			zap.Int("port", cfg.Server.Port))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			logger.Error("server exited with error", zap.Error(err))
			return err
		}
		logger.Info("server stopped gracefully")
		return nil
	},
}

// personaRegistry loads documents from dir when set, else the embedded set.
func personaRegistry(dir string) (*persona.Registry, error) {
	if dir == "" {
		return persona.DefaultRegistry()
	}
	docs, err := persona.LoadFromDir(dir)
	if err != nil {
		return nil, err
	}
	return persona.NewRegistry(docs)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
