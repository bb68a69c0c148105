package models

// SubjectivePassScore is the threshold above which an AI-graded answer counts
// as correct. Objective types use an exact boolean instead.
const SubjectivePassScore = 7.0

// MaxScore is the top of the 0-10 scoring scale for every question.
const MaxScore = 10.0

type CriterionFeedback struct {
	Criterion string  `json:"criterion"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}

// Evaluation is the scored outcome for one question. Created once at
// submission (exam) or check (practice) time and never mutated afterwards.
type Evaluation struct {
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
	IsCorrect bool    `json:"isCorrect"`
	Topic     string  `json:"topic"`

	// Populated for subjective types only.
	Criteria   []CriterionFeedback `json:"criteria,omitempty"`
	Strengths  []string            `json:"strengths,omitempty"`
	Weaknesses []string            `json:"weaknesses,omitempty"`
}
