package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/storechecker/storechecker/internal/di"
	"github.com/storechecker/storechecker/internal/usecases/reconcile"
	"github.com/storechecker/storechecker/pkg/schedule"
)

var port string

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve subscription requests and run scheduled price checks",
	Long: `Start the HTTP server for subscription requests.

When schedule.cron is set, a reconciliation pass also runs on that schedule,
and once at startup when schedule.run_on_start is true.
A failed scheduled pass is reported to alerts.slack_webhook_url when set.`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to listen on")

	if err := viper.BindPFlag("port", ServeCmd.Flags().Lookup("port")); err != nil {
		log.Printf("Failed to bind port flag: %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	configData, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize DI container
	container, err := di.NewContainer(context.Background(), configData, di.Options{Verbose: verbose})
	if err != nil {
		return err
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Printf("Failed to close storage: %v", err)
		}
	}()

	var worker *schedule.Worker
	if configData.Schedule.Cron != "" {
		worker, err = schedule.NewWorker(
			schedule.WorkerConfig{
				Name:     "SCHEDULER",
				CronExpr: configData.Schedule.Cron,
				Timezone: configData.Schedule.Timezone,
			},
			func(ctx context.Context) error {
				_, err := container.ReconcileUC.Execute(ctx, &reconcile.ReconcileRequest{})
				return err
			},
			func(ctx context.Context, runErr error) {
				if err := container.Alerts.Alert(ctx, fmt.Sprintf("Scheduled price check failed: %v", runErr)); err != nil {
					log.Printf("[SCHEDULER] Failed to send alert: %v", err)
				}
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := worker.Start(context.Background()); err != nil {
			return err
		}
		if configData.Schedule.RunOnStart {
			go func() { _ = worker.RunNow(context.Background()) }()
		}
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting storechecker on port %s", configData.Port)
		serverErr <- container.HTTPServer.Start(":" + configData.Port)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		log.Println("Shutdown signal received, shutting down gracefully...")
	case err := <-serverErr:
		if worker != nil {
			worker.Stop()
		}
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if worker != nil {
		worker.Stop()
	}
	if err := container.HTTPServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Printf("Server shutdown complete")
	return nil
}
