package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"interviewcoach/models"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [log-id]",
	Short: "List saved interview logs or print one of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "print the raw JSON log")
	showCmd.Flags().Bool("thoughts", false, "include the hidden observer and evaluator notes")
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath, "")
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 0 {
		ids, err := a.repo.ListLogs()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No interview logs found")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}

	log, err := a.repo.GetLog(args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(log)
	}

	thoughts, _ := cmd.Flags().GetBool("thoughts")
	printLog(cmd.OutOrStdout(), log, thoughts, a.logLocation(args[0]))
	return nil
}

func printLog(out io.Writer, log *models.InterviewLog, thoughts bool, location string) {
	fmt.Fprintf(out, "Participant: %s\n", log.ParticipantName)
	if p := log.CandidateProfile; p != nil {
		fmt.Fprintf(out, "Position: %s (%s)\n", p.Position, p.Grade)
		fmt.Fprintf(out, "Experience: %s\n", p.Experience)
	}
	fmt.Fprintf(out, "Turns: %d\n", len(log.Turns))

	for _, turn := range log.Turns {
		fmt.Fprintf(out, "\n--- Turn %d (score %.2f) ---\n", turn.TurnID, turn.Score())
		fmt.Fprintf(out, "Candidate: %s\n", turn.UserMessage)
		fmt.Fprintf(out, "Interviewer: %s\n", turn.AgentVisibleMessage)
		if thoughts && strings.TrimSpace(turn.InternalThoughts) != "" {
			fmt.Fprintf(out, "Notes: %s\n", turn.InternalThoughts)
		}
	}

	if log.FinalFeedback == nil {
		fmt.Fprintln(out, "\nNo final feedback yet")
		return
	}
	printReport(out, *log.FinalFeedback, location)
}
