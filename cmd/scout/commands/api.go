package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/filingsight/filingsight/internal/api"
	"github.com/filingsight/filingsight/internal/api/handlers"
	"github.com/filingsight/filingsight/internal/scheduler"
	"github.com/filingsight/filingsight/internal/scheduler/jobs"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server and, when tracked tickers are configured,
the scheduled refresh job.

Endpoints:
  GET  /health                 - Health check
  POST /api/analyze/{ticker}   - Run the analysis pipeline
  GET  /api/results            - List stored results
  GET  /api/results/{ticker}   - Latest stored result

Example:
  go run ./cmd/scout api
  go run ./cmd/scout api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	handler := handlers.NewAnalysisHandler(d.service, d.resultRepo(), d.log)
	router := api.NewRouter(handler, d.log)
	server := api.New(d.cfg, d.log, router)

	var sched *scheduler.Scheduler
	if len(d.cfg.Analysis.TrackedTickers) > 0 {
		sched = scheduler.New(d.log)
		refresh := jobs.NewRefreshJob(d.service, d.renderer, d.cfg.Analysis, d.log)
		if err := sched.AddJob(refresh); err != nil {
			return fmt.Errorf("schedule refresh job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/analyze/{ticker}")
	fmt.Println("  GET  /api/results")
	fmt.Println("  GET  /api/results/{ticker}")
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
