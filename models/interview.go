package models

const (
	GradeJunior = "Junior"
	GradeMiddle = "Middle"
	GradeSenior = "Senior"
)

const (
	RecommendationStrongHire = "Strong Hire"
	RecommendationHire       = "Hire"
	RecommendationNoHire     = "No Hire"
)

// Correctness is the evaluator's verdict on a single answer.
type Correctness string

const (
	CorrectnessCorrect   Correctness = "correct"
	CorrectnessPartial   Correctness = "partial"
	CorrectnessIncorrect Correctness = "incorrect"
)

type CandidateProfile struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Grade      string `json:"grade"`
	Experience string `json:"experience"`
}

type Turn struct {
	TurnID              int                `json:"turn_id"`
	AgentVisibleMessage string             `json:"agent_visible_message"`
	UserMessage         string             `json:"user_message"`
	InternalThoughts    string             `json:"internal_thoughts"`
	PerformanceMetrics  map[string]float64 `json:"performance_metrics"`
}

// Score returns the per-turn score recorded in the performance metrics.
func (t Turn) Score() float64 {
	return t.PerformanceMetrics["score"]
}

type KnowledgeGap struct {
	Topic         string `json:"topic"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

type FinalFeedback struct {
	Grade                string            `json:"grade"`
	HiringRecommendation string            `json:"hiring_recommendation"`
	ConfidenceScore      float64           `json:"confidence_score"`
	ConfirmedSkills      []string          `json:"confirmed_skills"`
	KnowledgeGaps        []KnowledgeGap    `json:"knowledge_gaps"`
	SoftSkills           map[string]string `json:"soft_skills"`
	Roadmap              []string          `json:"roadmap"`
}

type InterviewLog struct {
	ParticipantName  string            `json:"participant_name"`
	CandidateProfile *CandidateProfile `json:"candidate_profile,omitempty"`
	Turns            []Turn            `json:"turns"`
	FinalFeedback    *FinalFeedback    `json:"final_feedback"`
}

type CreateInterviewRequest struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Grade      string `json:"grade"`
	Experience string `json:"experience"`
}

type CreateInterviewResponse struct {
	ID               string `json:"id"`
	PersistenceError string `json:"persistence_error,omitempty"`
}

type TurnRequest struct {
	Message string `json:"message"`
}

type TurnResponse struct {
	TurnID           int    `json:"turn_id"`
	Message          string `json:"message"`
	Complete         bool   `json:"complete"`
	PersistenceError string `json:"persistence_error,omitempty"`
}

type MessageResponse struct {
	Message          string `json:"message"`
	PersistenceError string `json:"persistence_error,omitempty"`
}

type FeedbackResponse struct {
	Feedback         FinalFeedback `json:"feedback"`
	Summary          string        `json:"summary"`
	PersistenceError string        `json:"persistence_error,omitempty"`
}

type InterviewStatus struct {
	ID              string   `json:"id,omitempty"`
	Participant     string   `json:"participant"`
	Turns           int      `json:"turns"`
	Difficulty      int      `json:"difficulty"`
	CumulativeScore float64  `json:"cumulative_score"`
	TopicsCovered   []string `json:"topics_covered"`
	NextTopic       string   `json:"next_topic,omitempty"`
	Complete        bool     `json:"complete"`
}
