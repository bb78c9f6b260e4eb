package memory

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

type SkillStatus string

const minFuzzySkillLength = 4

const (
	SkillGood SkillStatus = "good"
	SkillWeak SkillStatus = "weak"
)

var SkillVocabulary = []string{
	"python", "java", "javascript", "typescript", "c++", "c#",
	"sql", "nosql", "mongodb", "postgresql", "mysql",
	"django", "flask", "fastapi", "react", "vue", "angular",
	"docker", "kubernetes", "aws", "azure", "gcp",
	"git", "ci/cd", "rest", "api", "microservices",
	"oop", "async", "multithreading", "testing",
}

var TopicVocabulary = []string{
	"data structures", "algorithms", "oop", "functional programming",
	"databases", "sql", "design patterns", "testing", "debugging",
	"architecture", "scalability", "security", "performance",
	"async", "concurrency", "networking", "api design",
}

// EntityTracker records what the candidate claimed, what was verified, and
// which topics were covered. All keys are lowercased.
type EntityTracker struct {
	claimed       map[string]struct{}
	verified      map[string]SkillStatus
	covered       map[string]struct{}
	topicsToCover []string
	attributes    map[string]string
}

type CoverageSummary struct {
	SkillsClaimed   int `json:"skills_claimed"`
	SkillsVerified  int `json:"skills_verified"`
	SkillsGood      int `json:"skills_good"`
	SkillsWeak      int `json:"skills_weak"`
	TopicsCovered   int `json:"topics_covered"`
	TopicsRemaining int `json:"topics_remaining"`
}

func NewEntityTracker() *EntityTracker {
	return &EntityTracker{
		claimed:    map[string]struct{}{},
		verified:   map[string]SkillStatus{},
		covered:    map[string]struct{}{},
		attributes: map[string]string{},
	}
}

func (t *EntityTracker) ClaimSkill(skill string) {
	t.claimed[normalize(skill)] = struct{}{}
}

func (t *EntityTracker) VerifySkill(skill string, status SkillStatus) {
	t.verified[normalize(skill)] = status
}

// AddTopic marks a topic covered and reports whether it was new.
func (t *EntityTracker) AddTopic(topic string) bool {
	key := normalize(topic)
	if key == "" {
		return false
	}
	if _, ok := t.covered[key]; ok {
		return false
	}
	t.covered[key] = struct{}{}
	return true
}

func (t *EntityTracker) AddTopicsToCover(topics []string) {
	for _, topic := range topics {
		key := normalize(topic)
		if key != "" && !lo.Contains(t.topicsToCover, key) {
			t.topicsToCover = append(t.topicsToCover, key)
		}
	}
}

func (t *EntityTracker) IsTopicCovered(topic string) bool {
	_, ok := t.covered[normalize(topic)]
	return ok
}

// NextTopic returns the first planned topic not yet covered, or "".
func (t *EntityTracker) NextTopic() string {
	next, _ := lo.Find(t.topicsToCover, func(topic string) bool {
		return !t.IsTopicCovered(topic)
	})
	return next
}

func (t *EntityTracker) TopicsToCover() []string {
	return append([]string(nil), t.topicsToCover...)
}

func (t *EntityTracker) CoveredTopics() []string {
	return sortedKeys(t.covered)
}

func (t *EntityTracker) CoveredCount() int {
	return len(t.covered)
}

func (t *EntityTracker) ClaimedSkills() []string {
	return sortedKeys(t.claimed)
}

// FindClaimedSkill resolves a skill name against the claimed set. Names of at
// least four letters tolerate a single typo; shorter names must match exactly,
// so "sql" never resolves to "mysql".
func (t *EntityTracker) FindClaimedSkill(name string) (string, bool) {
	name = normalize(name)
	if _, ok := t.claimed[name]; ok {
		return name, true
	}
	if len(name) < minFuzzySkillLength {
		return "", false
	}

	return lo.Find(t.ClaimedSkills(), func(skill string) bool {
		return len(skill) >= minFuzzySkillLength && fuzzy.LevenshteinDistance(name, skill) <= 1
	})
}

func (t *EntityTracker) UnverifiedSkills() []string {
	return lo.Filter(t.ClaimedSkills(), func(skill string, _ int) bool {
		_, ok := t.verified[skill]
		return !ok
	})
}

func (t *EntityTracker) VerifiedGoodSkills() []string {
	return t.skillsWithStatus(SkillGood)
}

func (t *EntityTracker) WeakSkills() []string {
	return t.skillsWithStatus(SkillWeak)
}

func (t *EntityTracker) SetAttribute(key, value string) {
	t.attributes[normalize(key)] = value
}

func (t *EntityTracker) Attribute(key, fallback string) string {
	if value, ok := t.attributes[normalize(key)]; ok {
		return value
	}
	return fallback
}

func (t *EntityTracker) CoverageSummary() CoverageSummary {
	return CoverageSummary{
		SkillsClaimed:  len(t.claimed),
		SkillsVerified: len(t.verified),
		SkillsGood:     len(t.VerifiedGoodSkills()),
		SkillsWeak:     len(t.WeakSkills()),
		TopicsCovered:  len(t.covered),
		TopicsRemaining: lo.CountBy(t.topicsToCover, func(topic string) bool {
			return !t.IsTopicCovered(topic)
		}),
	}
}

func (t *EntityTracker) skillsWithStatus(status SkillStatus) []string {
	skills := lo.Keys(lo.PickByValues(t.verified, []SkillStatus{status}))
	sort.Strings(skills)
	return skills
}

// ExtractSkills returns the known skills mentioned in text, in vocabulary order.
func ExtractSkills(text string) []string {
	return matchVocabulary(text, SkillVocabulary)
}

// ExtractTopics returns the known interview topics mentioned in text, in vocabulary order.
func ExtractTopics(text string) []string {
	return matchVocabulary(text, TopicVocabulary)
}

func matchVocabulary(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)
	return lo.Filter(vocabulary, func(keyword string, _ int) bool {
		return strings.Contains(lower, keyword)
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
