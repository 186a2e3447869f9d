package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/poke/internal/config"
	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/logger"
	"github.com/jbweber/homelab/poke/internal/metrics"
	"github.com/jbweber/homelab/poke/internal/migrations"
)

// Service describes one poke binary
type Service struct {
	Name       string // Also the environment variable prefix
	Port       string // Default listen port
	Migrations func() []migrations.Migration
	Mount      func(r chi.Router, ds *datastore.Datastore, cfg *config.Config)
}

// NewCommand builds the root command for svc. Running it without a
// subcommand is the same as "serve".
func NewCommand(svc Service) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           svc.Name,
		Short:         fmt.Sprintf("Run the %s service", svc.Name),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), svc, configPath)
		},
	}

	var rollback bool
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations, or revert the latest one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, svc, configPath, rollback)
		},
	}
	migrate.Flags().BoolVar(&rollback, "rollback", false, "revert the most recent migration")

	root.RunE = serve.RunE
	root.AddCommand(serve, migrate)

	return root
}

// Execute runs the command for svc, cancelling on SIGINT or SIGTERM
func Execute(svc Service) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewCommand(svc).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", svc.Name, err)
		return 1
	}
	return 0
}

func runServe(ctx context.Context, svc Service, configPath string) error {
	cfg, err := config.Load(svc.Name, svc.Port, configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log, svc.Name, os.Stderr)

	db, err := cfg.InitializeDatabase(svc.Migrations())
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Database.Path).Msg("failed to initialize database")
		return err
	}
	ds := datastore.New(db)

	m := metrics.New(svc.Name)
	m.WatchDB(db, svc.Name)

	handler := NewRouter(log, ds, m, func(r chi.Router) {
		svc.Mount(r, ds, cfg)
	})

	return New(cfg, log, ds, handler).Run(ctx)
}

func runMigrate(cmd *cobra.Command, svc Service, configPath string, rollback bool) error {
	cfg, err := config.Load(svc.Name, svc.Port, configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log, svc.Name, os.Stderr)

	db, err := cfg.OpenDatabase()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close database")
		}
	}()

	migrator := migrations.NewMigrator(db)
	for _, m := range svc.Migrations() {
		migrator.AddMigration(m)
	}

	if rollback {
		err = migrator.Rollback()
	} else {
		err = migrator.RunMigrations()
	}
	if err != nil {
		return err
	}

	version, err := migrator.GetCurrentVersion()
	if err != nil {
		return err
	}
	log.Info().Int64("version", version).Bool("rollback", rollback).Msg("migrations complete")
	fmt.Fprintf(cmd.OutOrStdout(), "%s schema version %d\n", svc.Name, version)

	return nil
}
