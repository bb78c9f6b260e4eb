package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"interviewcoach/models"

	"github.com/samber/lo"
)

const (
	reportSkills  = 5
	reportGaps    = 3
	reportRoadmap = 5
	reportClip    = 60
)

// clip shortens s to n runes and marks the cut.
func clip(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return lo.Substring(s, 0, uint(n)) + "..."
}

func printReport(out io.Writer, fb models.FinalFeedback, location string) {
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(out, "\n%s\nFINAL REPORT\n%s\n\n", rule, rule)

	fmt.Fprintln(out, "VERDICT:")
	fmt.Fprintf(out, "  Grade: %s\n", fb.Grade)
	fmt.Fprintf(out, "  Recommendation: %s\n", fb.HiringRecommendation)
	fmt.Fprintf(out, "  Confidence: %.0f%%\n\n", fb.ConfidenceScore)

	if len(fb.ConfirmedSkills) > 0 {
		fmt.Fprintln(out, "CONFIRMED SKILLS:")
		for _, skill := range lo.Subset(fb.ConfirmedSkills, 0, reportSkills) {
			fmt.Fprintf(out, "  + %s\n", skill)
		}
		fmt.Fprintln(out)
	}

	if len(fb.KnowledgeGaps) > 0 {
		fmt.Fprintln(out, "KNOWLEDGE GAPS:")
		for _, gap := range lo.Subset(fb.KnowledgeGaps, 0, reportGaps) {
			fmt.Fprintf(out, "  - %s\n", gap.Topic)
			fmt.Fprintf(out, "    Your answer: %s\n", clip(gap.UserAnswer, reportClip))
			fmt.Fprintf(out, "    Correct: %s\n", clip(gap.CorrectAnswer, reportClip))
		}
		fmt.Fprintln(out)
	}

	if len(fb.SoftSkills) > 0 {
		fmt.Fprintln(out, "SOFT SKILLS:")
		keys := lo.Keys(fb.SoftSkills)
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(out, "  %s: %s\n", key, fb.SoftSkills[key])
		}
		fmt.Fprintln(out)
	}

	if len(fb.Roadmap) > 0 {
		fmt.Fprintln(out, "ROADMAP:")
		for _, item := range lo.Subset(fb.Roadmap, 0, reportRoadmap) {
			fmt.Fprintf(out, "  > %s\n", item)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "%s\nFull report saved to: %s\n%s\n", rule, location, rule)
}
