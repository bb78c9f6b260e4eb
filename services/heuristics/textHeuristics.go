package heuristics

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const RedirectMessage = "Thanks for sharing, but let's get back to the technical part of the interview. " +
	"It will help me assess your skills for the position."

var OffTopicKeywords = []string{
	"weather", "politics", "sport", "football", "movie", "music", "food", "travel",
}

var OnTopicKeywords = []string{
	"code", "program", "develop", "language", "library", "framework",
	"database", "algorithm", "test", "architecture", "project", "experience",
	"how", "which", "task", "work", "using", "question",
}

var topicChangePatterns = []*regexp.Regexp{
	regexp.MustCompile(`let'?s\s+talk\s+about`),
	regexp.MustCompile(`can\s+we\s+(talk|speak)\s+about`),
	regexp.MustCompile(`tell\s+me\s+about\s+(something|anything)\s+else`),
	regexp.MustCompile(`change\s+the\s+(subject|topic)`),
}

var evasionPhrases = []string{
	"don't know", "dont know", "do not know",
	"don't remember", "dont remember", "do not remember",
	"not sure",
}

var skipPhrases = []string{
	"i don't know", "i dont know", "i do not know", "no idea",
}

var (
	highConfidenceMarkers = []string{"definitely", "absolutely", "exactly", "obviously", "clearly", "certainly"}
	lowConfidenceMarkers  = []string{"maybe", "perhaps", "probably", "i think", "i guess"}
	vagueTerms            = []string{"something like", "kind of", "sort of", "stuff like"}
)

var technicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\w+\(\)`),
	regexp.MustCompile(`\b\w+\.\w+`),
	regexp.MustCompile(`\b(class|function|method|array|list|dict|api|http|sql|import|export|return)\b`),
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type RiskAssessment struct {
	Level              RiskLevel `json:"risk_level"`
	ConfidenceMarkers  int       `json:"confidence_markers"`
	UncertaintyMarkers int       `json:"uncertainty_markers"`
	VagueTerms         int       `json:"vague_terms"`
	RequiresFactCheck  bool      `json:"requires_fact_check"`
}

func WordCount(message string) int {
	return len(strings.Fields(message))
}

// IsQuestion reports whether the candidate is asking something back.
func IsQuestion(message string) bool {
	return strings.Contains(message, "?")
}

// IsOffTopic flags drift away from the technical interview. Messages under
// three words are never judged.
func IsOffTopic(message string) bool {
	if WordCount(message) < 3 {
		return false
	}

	lower := strings.ToLower(message)
	offTopic := countMatches(lower, OffTopicKeywords)
	onTopic := countMatches(lower, OnTopicKeywords)
	if offTopic > 0 && onTopic == 0 {
		return true
	}

	return lo.SomeBy(topicChangePatterns, func(p *regexp.Regexp) bool {
		return p.MatchString(lower)
	})
}

// DetectEvasion flags short replies that are essentially "I don't know".
func DetectEvasion(message string) bool {
	lower := strings.ToLower(message)
	return countMatches(lower, evasionPhrases) > 0 && WordCount(message) <= 5
}

func HallucinationRisk(message string) RiskAssessment {
	lower := strings.ToLower(message)

	assessment := RiskAssessment{
		Level:              RiskLow,
		ConfidenceMarkers:  countMatches(lower, highConfidenceMarkers),
		UncertaintyMarkers: countMatches(lower, lowConfidenceMarkers),
		VagueTerms:         countMatches(lower, vagueTerms),
	}

	switch {
	case assessment.ConfidenceMarkers > 0 && assessment.VagueTerms > 1:
		assessment.Level = RiskHigh
	case assessment.ConfidenceMarkers > 1:
		assessment.Level = RiskMedium
	}
	assessment.RequiresFactCheck = assessment.Level != RiskLow || assessment.ConfidenceMarkers > 1

	return assessment
}

// IsTooShort uses five words as the minimum when minWords is not positive.
func IsTooShort(message string, minWords int) bool {
	if minWords <= 0 {
		minWords = 5
	}
	return WordCount(message) < minWords
}

func ContainsTechnicalContent(message string) bool {
	lower := strings.ToLower(message)

	if lo.SomeBy(technicalPatterns, func(p *regexp.Regexp) bool { return p.MatchString(lower) }) {
		return true
	}

	return countMatches(lower, OnTopicKeywords) > 0
}

// ShouldSkipEvaluation is true for replies with nothing to grade.
func ShouldSkipEvaluation(message string) bool {
	if IsTooShort(message, 3) {
		return true
	}

	normalized := strings.Trim(strings.ToLower(strings.TrimSpace(message)), ".!")
	return lo.Contains(skipPhrases, normalized)
}

func countMatches(lower string, vocabulary []string) int {
	return lo.CountBy(vocabulary, func(keyword string) bool {
		return strings.Contains(lower, keyword)
	})
}
