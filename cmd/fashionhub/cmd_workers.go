package main

import (
	"github.com/spf13/cobra"

	"github.com/fashionhub/storefront/internal/server"
)

var workerCount int

// fashionhub queue:work runs standalone queue workers.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Run queue workers (requires the redis queue driver)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.RunWorkers(workerCount)
	},
}

// fashionhub schedule:run runs the standalone scheduler.
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Run the recurring-task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.RunScheduler()
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&workerCount, "workers", "w", 2, "number of worker goroutines")
}
