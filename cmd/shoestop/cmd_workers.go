package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shoestop/backend/app/services"
	"github.com/shoestop/backend/internal/database"
	"github.com/shoestop/backend/pkg/cache"
	"github.com/shoestop/backend/pkg/logger"
	"github.com/shoestop/backend/pkg/queue"
)

var queueWorkersFlag int

// shoestop queue:work — run email workers outside the API process.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		if err := cache.Connect(); err != nil {
			logger.Warn("cache unavailable, using in-memory queue", "error", err)
		}
		if cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		} else {
			queue.SetDriver(queue.NewMemoryDriver())
		}
		queue.UseCollection(database.Collection(database.ColFailedJobs))
		services.RegisterJobs()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
