package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway"
	_ "github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway/backends/csm"
	_ "github.com/llamasearchai/llamasesame/internal/pkg/sesame/gateway/backends/httpapi"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/modelcat"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/settings"
)

var rootCmd = &cobra.Command{
	Use:           "llamasesame",
	Short:         "Voice cloning from reference audio",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("settings", settings.DefaultPath(), "Path to settings file")
	pf.StringP("log-level", "l", "info", "Log level (debug, info, warn, error)")
	pf.String("log-file", "", "Log file path")
	pf.String("backend", "csm", "Gateway backend (csm, httpapi)")
	pf.String("service-url", "", "Cloning service URL (httpapi backend)")
	pf.Int("parallel", 1, "Concurrent inference slots (accelerator devices)")

	viper.SetEnvPrefix("LLAMASESAME")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

func setupLogging() error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if logFile := viper.GetString("log-file"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		log.Logger = zerolog.New(f).With().Timestamp().Logger()
	}
	return nil
}

// loadSettings reads the persisted settings file named on the command
// line. Malformed settings are fatal at startup.
func loadSettings() (settings.Settings, *settings.Store, error) {
	store := settings.NewStore(viper.GetString("settings"))
	cfg, err := store.Load()
	if err != nil {
		return settings.Settings{}, nil, err
	}
	return cfg, store, nil
}

// openGateway opens the selected backend and bounds its concurrency.
func openGateway(cfg settings.Settings, modelID string) (gateway.Gateway, error) {
	if modelID == "" {
		modelID = cfg.DefaultModelID
	}

	backend := viper.GetString("backend")
	gw, err := gateway.Open(backend, gateway.Config{
		ModelID:    modelID,
		CacheDir:   cfg.CacheDir,
		ServiceURL: viper.GetString("service-url"),
		Token:      modelcat.ResolveToken(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", backend, err)
	}
	return gateway.Limit(gw, viper.GetInt("parallel")), nil
}
