package main

import (
	"github.com/spf13/cobra"

	"github.com/fashionhub/storefront/app/repositories"
	"github.com/fashionhub/storefront/config"
	"github.com/fashionhub/storefront/database/seeders"
	"github.com/fashionhub/storefront/pkg/migration"
)

func withDatabase(cmd *cobra.Command, fn func() error) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := repositories.Connect(cmd.Context()); err != nil {
		return err
	}
	defer repositories.Disconnect(cmd.Context())
	return fn()
}

// fashionhub db:migrate applies pending index migrations.
var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func() error {
			return migration.Up(cmd.Context(), repositories.DB())
		})
	},
}

// fashionhub db:rollback rolls back the most recent migration.
var migrateRollbackCmd = &cobra.Command{
	Use:   "db:rollback",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func() error {
			return migration.Down(cmd.Context(), repositories.DB())
		})
	},
}

// fashionhub db:seed loads the demo catalog and admin account.
var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the demo catalog and admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd, func() error {
			return seeders.Run(cmd.Context(), repositories.DB())
		})
	},
}
