package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/batch"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/job"
	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/report"
)

var cloneCmd = &cobra.Command{
	Use:   "clone",
	Short: "Clone a voice from a reference audio file",
	RunE:  runClone,
}

func init() {
	f := cloneCmd.Flags()
	f.StringP("audio", "a", "", "Path to reference audio file (wav or mp3)")
	f.StringP("context", "c", "", "Transcription of the reference audio")
	f.StringP("text", "t", "", "Text to synthesize with the cloned voice")
	f.StringP("model", "m", "", "Model ID (defaults to settings)")
	f.IntP("quality", "q", 0, "Quality level 1-10 (defaults to settings)")
	f.String("id", "", "Job id; also names the output file")
	f.String("output-dir", "", "Output directory (overrides settings)")
	f.Bool("no-metrics", false, "Skip voice similarity scoring")
	_ = cloneCmd.MarkFlagRequired("audio")
	_ = cloneCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(cloneCmd)
}

func runClone(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings()
	if err != nil {
		return err
	}

	audioFile, _ := cmd.Flags().GetString("audio")
	contextText, _ := cmd.Flags().GetString("context")
	text, _ := cmd.Flags().GetString("text")
	modelID, _ := cmd.Flags().GetString("model")
	quality, _ := cmd.Flags().GetInt("quality")
	jobID, _ := cmd.Flags().GetString("id")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	noMetrics, _ := cmd.Flags().GetBool("no-metrics")

	if modelID == "" {
		modelID = cfg.DefaultModelID
	}
	if quality == 0 {
		quality = cfg.DefaultQuality
	}
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if jobID == "" {
		jobID = "clone-" + uuid.NewString()[:8]
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
		Logger:         log.Logger,
	})
	if err != nil {
		return err
	}

	jobs := []job.Job{{
		ID:          jobID,
		AudioFile:   audioFile,
		ContextText: contextText,
		Text:        text,
		Quality:     quality,
		ModelID:     modelID,
		Status:      job.StatusPending,
	}}

	results := runner.Run(cmd.Context(), jobs)
	fmt.Fprint(cmd.OutOrStdout(), report.Render(results))
	appendHistory(outputDir, results)

	if results[0].Status != job.StatusSucceeded {
		return fmt.Errorf("cloning failed: %s", results[0].ErrorMessage)
	}
	log.Info().Str("output", results[0].OutputPath).Msg("Voice cloning completed")
	return nil
}
