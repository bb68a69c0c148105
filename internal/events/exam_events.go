package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies a published exam lifecycle event.
type EventType string

const (
	EventExamStarted      EventType = "exam.started"
	EventExamSubmitted    EventType = "exam.submitted"
	EventExamGraded       EventType = "exam.graded"
	EventPracticeFinished EventType = "practice.finished"
)

// ExamEvent is the envelope for every published event.
type ExamEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

// NewExamEvent wraps a payload in the standard envelope.
func NewExamEvent(eventType EventType, data interface{}) *ExamEvent {
	return &ExamEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "exam-service",
		Version:   "1.0",
		Data:      data,
	}
}

// Event payloads.

type ExamStartedEvent struct {
	SessionID     string    `json:"session_id"`
	UserID        string    `json:"user_id"`
	QuestionCount int       `json:"question_count"`
	TotalTime     int       `json:"total_time"` // seconds
	StartedAt     time.Time `json:"started_at"`
}

type ExamSubmittedEvent struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Forced      bool      `json:"forced"` // countdown reached zero
}

type ExamGradedEvent struct {
	SessionID     string  `json:"session_id"`
	UserID        string  `json:"user_id"`
	ResultID      uint    `json:"result_id"`
	QuestionCount int     `json:"question_count"`
	CorrectCount  int     `json:"correct_count"`
	AverageScore  float64 `json:"average_score"`
	TimeTaken     int     `json:"time_taken"` // seconds
}

type PracticeFinishedEvent struct {
	SessionID     string `json:"session_id"`
	UserID        string `json:"user_id"`
	QuestionCount int    `json:"question_count"`
	CorrectCount  int    `json:"correct_count"`
}
