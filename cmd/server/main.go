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

	"github.com/sakhi-app/core/internal/app"
	"github.com/sakhi-app/core/internal/config"
	"github.com/sakhi-app/core/internal/database"
	"github.com/sakhi-app/core/internal/pkg/applog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "sakhi",
		Short:         "Sakhi women's health backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       app.Version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, configPath)
		},
	}

	var restoreFile string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Write one backup archive, or restore one with --restore",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(cmd, configPath, restoreFile)
		},
	}
	backupCmd.Flags().StringVar(&restoreFile, "restore", "", "Archive filename in the backup directory to restore")

	root.AddCommand(serveCmd, migrateCmd, backupCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup(configPath string) (*config.AppConfig, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := applog.NewZapLogger(cfg.LogDir(), cfg.Log.Level)
	if err != nil {
		log, _ = zap.NewProduction()
		log.Warn("file log pipeline unavailable, falling back to stderr", zap.Error(err))
	}
	return cfg, log, nil
}

func runServe(configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	application, err := app.New(log, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		application.Shutdown()
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	shutdownErr := srv.Shutdown(ctx)
	application.Shutdown()
	if shutdownErr != nil {
		return fmt.Errorf("forced shutdown: %w", shutdownErr)
	}
	log.Info("server exited")
	return nil
}

func runMigrate(cmd *cobra.Command, configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database, logger.Warn)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		return err
	}
	applied, err := database.Applied(db)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, m := range applied {
		fmt.Fprintf(out, "%4d  %-32s %s\n", m.Version, m.Name, m.AppliedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "schema at version %d\n", database.LatestVersion())
	return nil
}

func runBackup(cmd *cobra.Command, configPath, restoreFile string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Connect(cfg, true)
	if err != nil {
		return err
	}
	defer database.Close(db)

	svc, err := app.NewBackupService(db, cfg, log)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if restoreFile != "" {
		manifest, err := svc.RestoreFile(restoreFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "restored %d tables from %s (created %s)\n",
			len(manifest.Tables), restoreFile, manifest.CreatedAt.Format(time.RFC3339))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	art, err := svc.Create(ctx)
	if art != nil {
		fmt.Fprintf(out, "wrote %s (%d bytes)\n", art.Path, art.Size)
		if art.URL != "" {
			fmt.Fprintf(out, "uploaded to %s\n", art.URL)
		}
	}
	if err != nil {
		return err
	}
	if cfg.Backup.Keep > 0 {
		if _, err := svc.Prune(cfg.Backup.Keep); err != nil {
			log.Warn("prune backups", zap.Error(err))
		}
	}
	return nil
}
