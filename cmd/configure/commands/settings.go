package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenhill-dev/estates-api/internal/config"
	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
)

// withSettingRepo loads config, opens the database, and hands the setting
// repository to fn. Connection teardown is handled here so each command body
// stays a few lines.
func withSettingRepo(fn func(ctx context.Context, repo *database.SettingRepository) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	return fn(context.Background(), database.NewSettingRepository(db))
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List site settings",
		Long:  "List all site settings with their localized labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettingRepo(func(ctx context.Context, repo *database.SettingRepository) error {
				settings, err := repo.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list settings: %w", err)
				}

				if len(settings) == 0 {
					fmt.Println("No settings configured")
					return nil
				}

				fmt.Println("Site settings:")
				for _, setting := range settings {
					fmt.Printf("  - %s = %s\n", setting.Key, setting.Value)
					if setting.LabelEN != "" || setting.LabelKA != "" {
						fmt.Printf("    Label: %s / %s\n", setting.LabelEN, setting.LabelKA)
					}
				}
				return nil
			})
		},
	}
}

// NewSetCmd creates the set command
func NewSetCmd() *cobra.Command {
	var labelKA, labelEN string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or update a site setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettingRepo(func(ctx context.Context, repo *database.SettingRepository) error {
				setting := &models.SiteSetting{
					Key:     args[0],
					Value:   args[1],
					LabelKA: labelKA,
					LabelEN: labelEN,
				}
				if err := repo.Upsert(ctx, setting); err != nil {
					return fmt.Errorf("failed to save setting: %w", err)
				}
				fmt.Printf("Saved %s\n", setting.Key)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&labelKA, "label-ka", "", "Georgian label for the admin UI")
	cmd.Flags().StringVar(&labelEN, "label-en", "", "English label for the admin UI")

	return cmd
}

// NewDeleteCmd creates the delete command
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a site setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettingRepo(func(ctx context.Context, repo *database.SettingRepository) error {
				if err := repo.Delete(ctx, args[0]); err != nil {
					if database.IsNotFound(err) {
						return fmt.Errorf("setting %q does not exist", args[0])
					}
					return fmt.Errorf("failed to delete setting: %w", err)
				}
				fmt.Printf("Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
