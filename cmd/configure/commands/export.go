package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/greenhill-dev/estates-api/internal/database"
	"github.com/greenhill-dev/estates-api/internal/models"
)

// settingEntry is the YAML form of a site setting. IDs and timestamps are
// deliberately absent; imports upsert by key.
type settingEntry struct {
	Key     string `yaml:"key"`
	Value   string `yaml:"value"`
	LabelKA string `yaml:"label_ka,omitempty"`
	LabelEN string `yaml:"label_en,omitempty"`
}

type settingsFile struct {
	Settings []settingEntry `yaml:"settings"`
}

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export site settings as YAML",
		Long:  "Export all site settings to a YAML file, or stdout when no --file is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSettingRepo(func(ctx context.Context, repo *database.SettingRepository) error {
				settings, err := repo.List(ctx)
				if err != nil {
					return fmt.Errorf("failed to list settings: %w", err)
				}

				file := settingsFile{Settings: make([]settingEntry, 0, len(settings))}
				for _, setting := range settings {
					file.Settings = append(file.Settings, settingEntry{
						Key:     setting.Key,
						Value:   setting.Value,
						LabelKA: setting.LabelKA,
						LabelEN: setting.LabelEN,
					})
				}

				out, err := yaml.Marshal(file)
				if err != nil {
					return fmt.Errorf("failed to marshal settings: %w", err)
				}

				if outPath == "" {
					fmt.Print(string(out))
					return nil
				}
				if err := os.WriteFile(outPath, out, 0o600); err != nil {
					return fmt.Errorf("failed to write %s: %w", outPath, err)
				}
				fmt.Printf("Exported %d settings to %s\n", len(file.Settings), outPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&outPath, "file", "", "Output file path (default stdout)")

	return cmd
}

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	var inPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import site settings from YAML",
		Long:  "Upsert site settings from a YAML file produced by export",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPath == "" {
				return fmt.Errorf("--file is required")
			}

			raw, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", inPath, err)
			}

			var file settingsFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("failed to parse %s: %w", inPath, err)
			}

			return withSettingRepo(func(ctx context.Context, repo *database.SettingRepository) error {
				for _, entry := range file.Settings {
					if entry.Key == "" {
						return fmt.Errorf("entry with empty key in %s", inPath)
					}
					setting := &models.SiteSetting{
						Key:     entry.Key,
						Value:   entry.Value,
						LabelKA: entry.LabelKA,
						LabelEN: entry.LabelEN,
					}
					if err := repo.Upsert(ctx, setting); err != nil {
						return fmt.Errorf("failed to save %s: %w", entry.Key, err)
					}
				}
				fmt.Printf("Imported %d settings\n", len(file.Settings))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&inPath, "file", "", "Input file path (required)")

	return cmd
}
