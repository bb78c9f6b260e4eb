package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"interviewcoach/models"
	"interviewcoach/services/interview"
)

const (
	defaultName       = "Candidate"
	defaultPosition   = "Developer"
	defaultGrade      = models.GradeJunior
	defaultExperience = "Beginner developer"
)

func printBanner(out io.Writer) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "   TECHNICAL INTERVIEW COACH")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out)
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  /help    - Show this help")
	fmt.Fprintln(out, "  /status  - Show the interview status")
	fmt.Fprintln(out, "  /finish  - Finish the interview and get feedback")
	fmt.Fprintln(out, "  /quit    - Leave without feedback")
	fmt.Fprintln(out)
}

// ask prints the prompt and returns the trimmed reply, or fallback when the
// reply is blank or input is exhausted.
func ask(in *bufio.Scanner, out io.Writer, prompt, fallback string) string {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		return fallback
	}
	if answer := strings.TrimSpace(in.Text()); answer != "" {
		return answer
	}
	return fallback
}

func readProfile(in *bufio.Scanner, out io.Writer) models.CandidateProfile {
	fmt.Fprintln(out, "Tell us about yourself:")
	return models.CandidateProfile{
		Name:       ask(in, out, "Name: ", defaultName),
		Position:   ask(in, out, "Position (for example Backend Developer): ", defaultPosition),
		Grade:      ask(in, out, "Grade (Junior/Middle/Senior): ", defaultGrade),
		Experience: ask(in, out, "Short description of your experience: ", defaultExperience),
	}
}

// warnPersistence prints persistence failures and passes through everything
// else.
func warnPersistence(out io.Writer, err error) error {
	var persistErr *interview.PersistenceError
	if errors.As(err, &persistErr) {
		fmt.Fprintf(out, "Warning: the interview log could not be saved (%v)\n", persistErr.Err)
		return nil
	}
	return err
}

// runSession drives the interactive conversation until completion, /finish,
// /quit or the end of input.
func runSession(ctx context.Context, o *interview.Orchestrator, profile models.CandidateProfile, in *bufio.Scanner, out io.Writer, location string) error {
	if _, err := o.Initialize(profile); warnPersistence(out, err) != nil {
		return err
	}
	fmt.Fprintf(out, "\nInterview initialized for %s, position %s (%s)\n", profile.Name, profile.Position, profile.Grade)
	printHelp(out)

	greeting, err := o.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[Interviewer]: %s\n\n", greeting)

	for !o.IsComplete() {
		fmt.Fprint(out, "You: ")
		if !in.Scan() {
			fmt.Fprintf(out, "\nInput closed. Progress is saved in %s\n", location)
			return in.Err()
		}

		text := strings.TrimSpace(in.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "/") {
			quit, err := handleCommand(o, strings.ToLower(text), in, out, location)
			if err != nil || quit {
				return err
			}
			continue
		}

		message, err := o.ProcessTurn(ctx, text)
		if err := warnPersistence(out, err); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n[Interviewer]: %s\n\n", message)
	}

	return deliverFeedback(ctx, o, out, location)
}

func handleCommand(o *interview.Orchestrator, command string, in *bufio.Scanner, out io.Writer, location string) (quit bool, err error) {
	switch command {
	case "/help":
		printHelp(out)
	case "/status":
		status, err := o.Status()
		if err != nil {
			return false, err
		}
		printStatus(out, status)
	case "/finish":
		fmt.Fprintln(out, "\nFinishing the interview...")
		return false, o.Finish()
	case "/quit":
		if strings.EqualFold(ask(in, out, "Are you sure? Progress is saved (y/n): ", "n"), "y") {
			fmt.Fprintf(out, "\nExiting. Progress is saved in %s\n", location)
			return true, nil
		}
	default:
		fmt.Fprintf(out, "Unknown command: %s\nType /help for the list of commands\n", command)
	}
	return false, nil
}

func printStatus(out io.Writer, status models.InterviewStatus) {
	fmt.Fprintln(out, "\n--- Interview Status ---")
	fmt.Fprintf(out, "Turns: %d\n", status.Turns)
	fmt.Fprintf(out, "Difficulty: %d/5\n", status.Difficulty)
	fmt.Fprintf(out, "Average score: %.2f\n", status.CumulativeScore)
	fmt.Fprintf(out, "Topics: %s\n", strings.Join(status.TopicsCovered, ", "))
	if status.NextTopic != "" {
		fmt.Fprintf(out, "Next topic: %s\n", status.NextTopic)
	}
	fmt.Fprintln(out, "------------------------")
	fmt.Fprintln(out)
}

func deliverFeedback(ctx context.Context, o *interview.Orchestrator, out io.Writer, location string) error {
	fmt.Fprintln(out, "Generating the final feedback...")

	feedback, err := o.GenerateFinalFeedback(ctx)
	if err := warnPersistence(out, err); err != nil {
		return err
	}

	printReport(out, feedback, location)
	fmt.Fprintln(out, o.QuickSummary())
	return nil
}
