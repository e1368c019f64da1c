package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/config"
	"github.com/shashiranjanraj/catalogapi/database/seeders"
	"github.com/shashiranjanraj/catalogapi/pkg/database"
	"github.com/shashiranjanraj/catalogapi/pkg/migration"
)

// withDB loads config, opens the database and closes it after fn.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close(database.DB) //nolint:errcheck
	return fn(database.DB)
}

// catalog migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			return migration.New(db, cmd.OutOrStdout()).Run()
		})
	},
}

// catalog migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return migration.New(db, cmd.OutOrStdout()).Rollback()
		})
	},
}

// catalog migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db, cmd.OutOrStdout()).Status()
		})
	},
}

// catalog seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample categories, products, orders and users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(cmd.Context(), db, cmd.OutOrStdout())
		})
	},
}
