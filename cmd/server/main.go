package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mx-space/dentalcare/internal/app"
	"github.com/mx-space/dentalcare/internal/config"
	"github.com/mx-space/dentalcare/internal/pkg/nativelog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	configPath string
	cfg        *config.AppConfig
	logger     *zap.Logger
}

func main() {
	rt := &cli{}
	root := rootCommand(rt)
	err := root.Execute()
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func rootCommand(rt *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "dentalcare",
		Short:         "Dental care tracker API server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(rt)
		},
	}
	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", config.DefaultConfigPath, "Path to YAML config file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server and background jobs",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(rt)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Migrate(rt.logger, rt.cfg); err != nil {
					return err
				}
				rt.logger.Info("migration finished")
				return nil
			},
		},
		&cobra.Command{
			Use:   "remind",
			Short: "Send today's reminder emails once",
			RunE: func(cmd *cobra.Command, args []string) error {
				report, err := app.RunReminders(cmd.Context(), rt.logger, rt.cfg)
				if err != nil {
					return err
				}
				rt.logger.Info("reminders dispatched",
					zap.Int("found", report.Found),
					zap.Int("sent", report.Sent),
					zap.Int("failed", report.Failed),
					zap.Int("unmarked", report.Unmarked),
					zap.Int("skipped", report.Skipped),
				)
				return nil
			},
		},
	)
	return root
}

func (rt *cli) setup() error {
	cfg, err := config.LoadOrDefault(rt.configPath)
	if err != nil {
		return err
	}
	rt.cfg = cfg

	logger, err := nativelog.NewZapLogger(cfg.LogDir(), cfg.IsDev())
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("native log pipeline unavailable, fallback to zap production logger", zap.Error(err))
	}
	rt.logger = logger
	return nil
}

func serve(rt *cli) error {
	logger := rt.logger
	application, err := app.New(logger, rt.cfg)
	if err != nil {
		logger.Error("failed to initialize app", zap.Error(err))
		return err
	}
	application.Start()

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			application.Shutdown()
			return err
		}
	}

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	application.Shutdown()
	logger.Info("server exited")
	return nil
}
