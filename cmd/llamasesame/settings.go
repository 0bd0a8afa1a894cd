package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the persisted configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadSettings()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cache_dir:        %s\n", cfg.CacheDir)
		fmt.Fprintf(out, "output_dir:       %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "default_quality:  %d\n", cfg.DefaultQuality)
		fmt.Fprintf(out, "default_model_id: %s\n", cfg.DefaultModelID)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update one setting and persist it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadSettings()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "cache_dir":
			cfg.CacheDir = value
		case "output_dir":
			cfg.OutputDir = value
		case "default_quality":
			q, err := strconv.Atoi(value)
			if err != nil || q < job.MinQuality || q > job.MaxQuality {
				return fmt.Errorf("default_quality must be an integer in [%d,%d]", job.MinQuality, job.MaxQuality)
			}
			cfg.DefaultQuality = q
		case "default_model_id":
			cfg.DefaultModelID = value
		default:
			return fmt.Errorf("unknown setting %q", key)
		}

		if err := store.Save(settings.Normalize(cfg)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
