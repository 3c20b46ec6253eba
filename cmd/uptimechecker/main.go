package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/naestep/WebsiteUptimeChecker/internal/config"
	"github.com/naestep/WebsiteUptimeChecker/internal/httpapi"
	"github.com/naestep/WebsiteUptimeChecker/internal/logging"
	"github.com/naestep/WebsiteUptimeChecker/internal/monitor"
	"github.com/naestep/WebsiteUptimeChecker/internal/state"
)

var version = "dev"

var (
	cfgFile      string
	logDir       string
	logLevel     string
	flagURL      string
	flagInterval time.Duration
	flagAddr     string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "uptimechecker",
		Short:        "Periodically checks website availability and logs downtime",
		SilenceUsage: true,
		RunE:         runMonitor,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: config.{yaml,json} in . or ./config)")
	root.PersistentFlags().StringVar(&logDir, "log-dir", "logs", "directory for the rotating log file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.Flags().StringVar(&flagURL, "url", "", "URL to check (added to the configured targets)")
	root.Flags().DurationVar(&flagInterval, "interval", 60*time.Second, "check interval for the command-line URL")
	root.Flags().StringVar(&flagAddr, "addr", "", "bind address for the status API (disabled when empty)")

	root.AddCommand(checkCmd())
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uptimechecker %s\n", version)
		},
	}
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	boot := logging.Console(logLevel)
	cfg, err := loadConfig(boot)
	if err != nil {
		boot.Error("startup failed", zap.Error(err))
		return err
	}
	if cmd.Flags().Changed("log-dir") {
		cfg.LogDir = logDir
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	logger, err := logging.New(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting Website Uptime Checker",
		zap.String("version", version),
		zap.Int("targets", len(cfg.Targets)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.New()
	sup := monitor.FromConfig(cfg, logger, store)
	sup.Start(ctx)

	var httpServer *http.Server
	serverErr := make(chan error, 1)
	if cfg.Addr != "" {
		api := httpapi.NewServer(logger, store)
		httpServer = &http.Server{Addr: cfg.Addr, Handler: api.Router()}
		go func() {
			logger.Info("status API listening", zap.String("addr", cfg.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	var fatal error
	select {
	case <-ctx.Done():
		logger.Info("Monitoring stopped by user")
	case err := <-serverErr:
		fatal = fmt.Errorf("status API: %w", err)
		stop()
	}

	sup.Wait()

	if httpServer != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fatal = multierr.Append(fatal, httpServer.Shutdown(sctx))
	}

	logger.Info("All monitors stopped")
	return fatal
}

// loadConfig reads the config document and folds in the command-line target.
func loadConfig(logger *zap.Logger) (*config.Config, error) {
	cfg, err := config.Load(cfgFile, logger)
	if err != nil {
		// A config without targets is still usable when --url supplies one.
		if flagURL == "" || !errors.Is(err, config.ErrNoTargets) {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg, err = config.LoadGlobals(cfgFile, logger)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if flagURL != "" {
		cfg.Targets = append(cfg.Targets, config.Target{
			URL:      flagURL,
			Name:     flagURL,
			Interval: flagInterval,
		})
	}
	return cfg, nil
}
