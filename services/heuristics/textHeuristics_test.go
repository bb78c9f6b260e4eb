package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOffTopic(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{
			name:     "off-topic keyword without technical words",
			message:  "I really love football on weekends",
			expected: true,
		},
		{
			name:     "off-topic keyword mixed with technical words",
			message:  "I built a football stats database project",
			expected: false,
		},
		{
			name:     "too short to judge",
			message:  "weather nice",
			expected: false,
		},
		{
			name:     "explicit topic change",
			message:  "Let's talk about something else now",
			expected: true,
		},
		{
			name:     "change subject request",
			message:  "Could we change the subject please",
			expected: true,
		},
		{
			name:     "technical answer",
			message:  "A goroutine is a lightweight thread managed by the runtime",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOffTopic(tt.message))
		})
	}
}

func TestDetectEvasion(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{name: "plain don't know", message: "I don't know", expected: true},
		{name: "not sure", message: "Not sure, sorry", expected: true},
		{name: "don't remember", message: "I don't remember that", expected: true},
		{name: "long honest answer", message: "I don't know much about goroutines but I think they are lightweight threads", expected: false},
		{name: "real answer", message: "Channels are typed conduits", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectEvasion(tt.message))
		})
	}
}

func TestHallucinationRisk(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		level     RiskLevel
		factCheck bool
	}{
		{
			name:      "confident and vague",
			message:   "It is definitely something like a kind of cache",
			level:     RiskHigh,
			factCheck: true,
		},
		{
			name:      "overconfident",
			message:   "Definitely and absolutely a mutex",
			level:     RiskMedium,
			factCheck: true,
		},
		{
			name:      "hedged",
			message:   "Maybe a mutex",
			level:     RiskLow,
			factCheck: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HallucinationRisk(tt.message)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, tt.factCheck, got.RequiresFactCheck)
		})
	}

	hedged := HallucinationRisk("Maybe, I think it is probably a mutex")
	assert.Equal(t, 3, hedged.UncertaintyMarkers)
	assert.Zero(t, hedged.ConfidenceMarkers)
}

func TestIsTooShort(t *testing.T) {
	assert.True(t, IsTooShort("one two three", 0))
	assert.False(t, IsTooShort("one two three four five", 0))
	assert.False(t, IsTooShort("one two three", 3))
	assert.True(t, IsTooShort("   ", 1))
}

func TestContainsTechnicalContent(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{name: "method access", message: "call fmt.Println to print", expected: true},
		{name: "function call", message: "use len() for size", expected: true},
		{name: "keyword", message: "We return early", expected: true},
		{name: "on-topic vocabulary", message: "my last project", expected: true},
		{name: "small talk", message: "I like cats very much", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsTechnicalContent(tt.message))
		})
	}
}

func TestShouldSkipEvaluation(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		expected bool
	}{
		{name: "single word", message: "yes", expected: true},
		{name: "two words", message: "no clue", expected: true},
		{name: "exact dont know", message: "I don't know", expected: true},
		{name: "dont know with punctuation", message: " I don't know. ", expected: true},
		{name: "real answer", message: "Goroutines are cheap threads", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldSkipEvaluation(tt.message))
		})
	}
}

func TestIsQuestion(t *testing.T) {
	assert.True(t, IsQuestion("What does the role involve?"))
	assert.False(t, IsQuestion("I prefer Go"))
}

func BenchmarkIsOffTopic(b *testing.B) {
	message := "I really love football and music on the weekends with friends"
	for i := 0; i < b.N; i++ {
		IsOffTopic(message)
	}
}
