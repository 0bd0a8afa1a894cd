package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/batch"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/history"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process a batch of voice cloning jobs from a JSON file",
	RunE:  runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringP("file", "f", "", "JSON file with batch jobs")
	f.StringP("model", "m", "", "Default model ID for jobs that omit one")
	f.String("output-dir", "", "Output directory (overrides settings)")
	f.Duration("job-timeout", 0, "Per-job synthesis timeout (0 = none)")
	f.Bool("no-metrics", false, "Skip voice similarity scoring")
	_ = batchCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	batchFile, _ := cmd.Flags().GetString("file")
	modelID, _ := cmd.Flags().GetString("model")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	jobTimeout, _ := cmd.Flags().GetDuration("job-timeout")
	noMetrics, _ := cmd.Flags().GetBool("no-metrics")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if modelID == "" {
		modelID = cfg.DefaultModelID
	}

	jobs, err := job.LoadFile(batchFile, job.Defaults{
		Quality: cfg.DefaultQuality,
		ModelID: modelID,
	})
	if err != nil {
		return err
	}

	gw, err := openGateway(cfg, modelID)
	if err != nil {
		return err
	}
	defer gw.Close()

	runner, err := batch.NewRunner(batch.Config{
		Gateway:        gw,
		OutputDir:      outputDir,
		ComputeMetrics: !noMetrics,
		JobTimeout:     jobTimeout,
		Logger:         log.Logger,
	})
	if err != nil {
		return err
	}

	results := runner.Run(cmd.Context(), jobs)
	fmt.Fprint(cmd.OutOrStdout(), report.Render(results))

	appendHistory(outputDir, results)
	return nil
}

func appendHistory(outputDir string, results []job.Job) {
	entries := make([]history.Entry, 0, len(results))
	now := time.Now().UTC()
	for _, j := range results {
		if j.Status != job.StatusSucceeded {
			continue
		}
		entries = append(entries, history.Entry{
			JobID:      j.ID,
			Text:       j.Text,
			ModelID:    j.ModelID,
			Quality:    j.Quality,
			OutputPath: j.OutputPath,
			Metrics:    j.Metrics,
			CreatedAt:  now,
		})
	}
	if len(entries) == 0 {
		return
	}
	if err := history.NewLog(outputDir).Append(entries...); err != nil {
		log.Warn().Err(err).Msg("Failed to update history")
	}
}
