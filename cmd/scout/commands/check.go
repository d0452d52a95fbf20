package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/database"
	"github.com/filingsight/filingsight/pkg/redis"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and backing-service connectivity",
	Long: `Loads the configuration and checks each backing service: PostgreSQL
(ping, health, pool stats) and Redis. External API keys are reported
but not exercised.

Example:
  go run ./cmd/scout check`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("=== FilingSight Connectivity Check ===")

	fmt.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	printSuccess(fmt.Sprintf("Config loaded (ENV: %s)", cfg.Env))

	checkAPIKeys(cfg)
	checkDatabase(cfg)
	checkRedis(cfg)

	return nil
}

func checkAPIKeys(cfg *config.Config) {
	fmt.Println("\nExternal APIs:")
	if cfg.SEC.UserAgent != "" {
		printSuccess("SEC_USER_AGENT set")
	} else {
		printError("SEC_USER_AGENT not set (EDGAR disabled)")
	}
	if cfg.AlphaVantage.APIKey != "" {
		printSuccess("ALPHAVANTAGE_API_KEY set")
	} else {
		printError("ALPHAVANTAGE_API_KEY not set (vendor fallback and insider feed disabled)")
	}
}

func checkDatabase(cfg *config.Config) {
	fmt.Println("\nPostgreSQL:")
	if cfg.Database.URL == "" {
		printError("DATABASE_URL not set (persistence disabled)")
		return
	}

	db, err := database.New(cfg)
	if err != nil {
		printError(fmt.Sprintf("connect: %v", err))
		return
	}
	defer db.Close()
	printSuccess("Connection established")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		printError(fmt.Sprintf("health check: %v", err))
		return
	}
	printSuccess(fmt.Sprintf("Healthy (response time %v)", status.ResponseTime))
	printKeyValue("max conns", fmt.Sprintf("%d", status.Stats.MaxConns))
	printKeyValue("total conns", fmt.Sprintf("%d", status.Stats.TotalConns))
	printKeyValue("idle conns", fmt.Sprintf("%d", status.Stats.IdleConns))
}

func checkRedis(cfg *config.Config) {
	fmt.Println("\nRedis:")
	if !cfg.Redis.Enabled {
		printError("REDIS_ENABLED=false (caching and shared rate limits disabled)")
		return
	}

	client, err := redis.New(cfg)
	if err != nil {
		printError(fmt.Sprintf("connect: %v", err))
		return
	}
	defer client.Close()
	printSuccess(fmt.Sprintf("Connected to %s:%s", cfg.Redis.Host, cfg.Redis.Port))
}
