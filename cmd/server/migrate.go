package main

import (
	"github.com/portfolio-showcase/portfolio-api/internal/bootstrap"
	"github.com/portfolio-showcase/portfolio-api/internal/config"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/repo"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the projects schema and indexes, then exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		inj := bootstrap.BuildContainer(configPath)
		defer func() { _ = inj.Shutdown() }()

		cfg, err := do.Invoke[*config.Config](inj)
		if err != nil {
			return err
		}
		cfg.Database.AutoMigrate = true

		log, err := do.Invoke[*zap.Logger](inj)
		if err != nil {
			return err
		}
		// Resolving the repository opens the database and runs the migration.
		if _, err := do.Invoke[repo.ProjectRepo](inj); err != nil {
			log.Error("migration failed", zap.Error(err))
			return err
		}
		log.Info("migration complete", zap.String("database", cfg.Database.Driver))
		return nil
	},
}
