package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ExamResult is the immutable record of a finished exam: the question list
// with the parallel answer and evaluation lists, elapsed time and the
// originating configuration.
type ExamResult struct {
	Questions   []Question   `json:"questions"`
	UserAnswers []UserAnswer `json:"userAnswers"`
	Evaluations []Evaluation `json:"evaluations"`
	TimeTaken   int          `json:"timeTaken"` // seconds
	Config      ExamConfig   `json:"config"`
	Timestamp   time.Time    `json:"timestamp"`
}

// CorrectCount returns how many evaluations were marked correct.
func (r *ExamResult) CorrectCount() int {
	count := 0
	for _, e := range r.Evaluations {
		if e.IsCorrect {
			count++
		}
	}
	return count
}

// AverageScore returns the mean score across all evaluations, 0 for an empty
// result.
func (r *ExamResult) AverageScore() float64 {
	if len(r.Evaluations) == 0 {
		return 0
	}
	total := 0.0
	for _, e := range r.Evaluations {
		total += e.Score
	}
	return total / float64(len(r.Evaluations))
}

// ExamResultRecord is the persisted form of an ExamResult. The parallel
// lists and the config are stored as JSON columns; summary fields are
// duplicated for listing without unmarshalling the payload.
type ExamResultRecord struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;index;size:255"`

	Questions   datatypes.JSON `json:"questions" gorm:"type:jsonb;not null"`
	UserAnswers datatypes.JSON `json:"user_answers" gorm:"type:jsonb;not null"`
	Evaluations datatypes.JSON `json:"evaluations" gorm:"type:jsonb;not null"`
	Config      datatypes.JSON `json:"config" gorm:"type:jsonb;not null"`

	QuestionCount int     `json:"question_count" gorm:"not null"`
	CorrectCount  int     `json:"correct_count" gorm:"not null"`
	AverageScore  float64 `json:"average_score" gorm:"not null"`
	TimeTaken     int     `json:"time_taken" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (ExamResultRecord) TableName() string {
	return "exam_results"
}

// NewExamResultRecord serializes a result for persistence.
func NewExamResultRecord(userID string, result *ExamResult) (*ExamResultRecord, error) {
	questions, err := json.Marshal(result.Questions)
	if err != nil {
		return nil, err
	}
	answers, err := json.Marshal(result.UserAnswers)
	if err != nil {
		return nil, err
	}
	evaluations, err := json.Marshal(result.Evaluations)
	if err != nil {
		return nil, err
	}
	config, err := json.Marshal(result.Config)
	if err != nil {
		return nil, err
	}

	return &ExamResultRecord{
		UserID:        userID,
		Questions:     questions,
		UserAnswers:   answers,
		Evaluations:   evaluations,
		Config:        config,
		QuestionCount: len(result.Questions),
		CorrectCount:  result.CorrectCount(),
		AverageScore:  result.AverageScore(),
		TimeTaken:     result.TimeTaken,
		CreatedAt:     result.Timestamp,
	}, nil
}

// Result reconstructs the ExamResult from the persisted columns.
func (rec *ExamResultRecord) Result() (*ExamResult, error) {
	result := &ExamResult{
		TimeTaken: rec.TimeTaken,
		Timestamp: rec.CreatedAt,
	}
	if err := json.Unmarshal(rec.Questions, &result.Questions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rec.UserAnswers, &result.UserAnswers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rec.Evaluations, &result.Evaluations); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(rec.Config, &result.Config); err != nil {
		return nil, err
	}
	return result, nil
}
