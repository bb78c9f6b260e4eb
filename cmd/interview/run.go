package main

import (
	"bufio"
	"path/filepath"
	"time"

	"interviewcoach/services"

	"github.com/spf13/cobra"
)

// cliLogFile receives the structured log of terminal sessions.
var cliLogFile = filepath.Join("logs", "interview-coach.log")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview in the terminal",
	Long: `Run asks for the candidate profile and then conducts the interview turn by
turn. Type /help during the interview for the available commands.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath, cliLogFile)
	if err != nil {
		return err
	}
	defer a.close()

	stages, err := a.stages()
	if err != nil {
		return err
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	printBanner(out)
	profile := readProfile(in, out)

	logID := services.LogID(profile.Name, time.Now())
	a.logger.Info("Starting interactive interview")
	return runSession(cmd.Context(), a.newOrchestrator(stages, logID), profile, in, out, a.logLocation(logID))
}
