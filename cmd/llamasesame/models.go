package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/modelcat"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available voice cloning models",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available voice cloning models:")
		for _, m := range modelcat.List() {
			fmt.Fprintf(out, "  %s\n", m.Describe())
		}
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
