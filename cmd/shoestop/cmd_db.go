package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoestop/backend/config"
	"github.com/shoestop/backend/database/seeders"
	"github.com/shoestop/backend/internal/database"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// shoestop migrate — ensure every collection index exists.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the MongoDB indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(ctx) //nolint:errcheck

		fmt.Println("Ensuring indexes…")
		if err := database.EnsureIndexes(ctx); err != nil {
			return err
		}
		fmt.Println("Indexes in place.")
		return nil
	},
}

// shoestop seed — insert the admin account and sample catalog.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(ctx) //nolint:errcheck

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx)
	},
}
