package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"interviewcoach/models"
	"interviewcoach/services"
	"interviewcoach/services/interview"

	"github.com/spf13/cobra"
)

var batchProfile models.CandidateProfile

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Replay scripted answers through a full interview",
	Long: `Batch feeds one answer per line from a file into the interview and prints the
final report. Blank lines and lines starting with # are ignored.`,
	Example: `  interview batch --answers scenario.txt --name Alex --position "Backend Developer"`,
	Args:    cobra.NoArgs,
	RunE:    runBatchCommand,
}

func init() {
	batchCmd.Flags().String("answers", "", "file with one candidate answer per line")
	batchCmd.Flags().StringVar(&batchProfile.Name, "name", "Alex", "candidate name")
	batchCmd.Flags().StringVar(&batchProfile.Position, "position", "Backend Developer", "target position")
	batchCmd.Flags().StringVar(&batchProfile.Grade, "grade", models.GradeJunior, "target grade")
	batchCmd.Flags().StringVar(&batchProfile.Experience, "experience",
		"Pet projects on Django, some SQL, learning Python for six months", "short experience description")
	_ = batchCmd.MarkFlagRequired("answers")
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("answers")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open answers file: %w", err)
	}
	defer f.Close()

	answers, err := readAnswers(f)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		return fmt.Errorf("answers file %s has no answers", path)
	}

	a, err := newApp(configPath, "")
	if err != nil {
		return err
	}
	defer a.close()

	stages, err := a.stages()
	if err != nil {
		return err
	}

	logID := services.LogID(batchProfile.Name, time.Now())
	return runBatch(cmd.Context(), a.newOrchestrator(stages, logID), batchProfile, answers, cmd.OutOrStdout(), a.logLocation(logID))
}

func readAnswers(r io.Reader) ([]string, error) {
	var answers []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		answers = append(answers, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	return answers, nil
}

// runBatch stops early when the interview completes before the answers run
// out, and finishes it explicitly when they run out first.
func runBatch(ctx context.Context, o *interview.Orchestrator, profile models.CandidateProfile, answers []string, out io.Writer, location string) error {
	if _, err := o.Initialize(profile); warnPersistence(out, err) != nil {
		return err
	}

	greeting, err := o.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[Interviewer]: %s\n\n", greeting)

	for _, answer := range answers {
		if o.IsComplete() {
			break
		}
		fmt.Fprintf(out, "You: %s\n", answer)

		message, err := o.ProcessTurn(ctx, answer)
		if err := warnPersistence(out, err); err != nil {
			return err
		}
		fmt.Fprintf(out, "[Interviewer]: %s\n\n", message)
	}

	if !o.IsComplete() {
		if err := o.Finish(); err != nil {
			return err
		}
	}

	return deliverFeedback(ctx, o, out, location)
}
