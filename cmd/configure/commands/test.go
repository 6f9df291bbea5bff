package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenhill-dev/estates-api/internal/config"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/middleware"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test service connectivity",
		Long:  "Check that the database, Redis, and the auth endpoint are reachable with the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("database check failed: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			fmt.Println("✓ Database is reachable")

			redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("redis check failed: %w", err)
			}
			defer func() {
				if err := redisClient.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close redis: %v\n", err)
				}
			}()
			fmt.Println("✓ Redis is reachable")

			// A HEAD request is enough to prove the auth endpoint resolves and
			// answers; the login path is exercised by the API itself.
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, cfg.AuthEndpoint, nil)
			if err != nil {
				return fmt.Errorf("auth endpoint check failed: %w", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("auth endpoint check failed: %w", err)
			}
			if err := resp.Body.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
			}
			fmt.Printf("✓ Auth endpoint answered with status %d\n", resp.StatusCode)

			fmt.Println("\n✓ Connectivity test passed")
			return nil
		},
	}
}
