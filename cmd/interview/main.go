// Package main implements the interview command: a multi-stage technical
// interview coach for the terminal and for HTTP clients.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	// configPath points to an optional YAML configuration file.
	configPath string
	version    = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "interview",
	Short: "Technical interview coach",
	Long: `interview runs a technical interview driven by a language model.

A visible interviewer asks the questions while hidden observer and evaluator
stages grade each answer and steer the difficulty. When the interview ends a
final report with a grade, a hiring recommendation and a study roadmap is
written to the interview log.

Configuration is read from an optional YAML file and from COACH_* environment
variables, for example COACH_LLM_PROVIDER=anthropic.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(showCmd)
}
