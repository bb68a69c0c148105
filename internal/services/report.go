package services

import (
	"sort"
	"time"

	"github.com/soma-study/exam-service/internal/models"
)

// TopicStat aggregates a result's evaluations for one topic.
type TopicStat struct {
	Topic        string  `json:"topic"`
	Questions    int     `json:"questions"`
	Correct      int     `json:"correct"`
	AverageScore float64 `json:"average_score"`
}

// ResultReport summarizes one finished exam for reporting surfaces.
type ResultReport struct {
	QuestionCount int         `json:"question_count"`
	CorrectCount  int         `json:"correct_count"`
	AverageScore  float64     `json:"average_score"`
	TimeTaken     int         `json:"time_taken"` // seconds
	Config        models.ExamConfig `json:"config"`
	Topics        []TopicStat `json:"topics"`
	Timestamp     time.Time   `json:"timestamp"`
}

// BuildReport folds a result's evaluations into per-topic aggregates. Topics
// are ordered alphabetically for stable output.
func BuildReport(result *models.ExamResult) *ResultReport {
	byTopic := make(map[string]*TopicStat)
	totals := make(map[string]float64)

	for _, evaluation := range result.Evaluations {
		stat, ok := byTopic[evaluation.Topic]
		if !ok {
			stat = &TopicStat{Topic: evaluation.Topic}
			byTopic[evaluation.Topic] = stat
		}
		stat.Questions++
		if evaluation.IsCorrect {
			stat.Correct++
		}
		totals[evaluation.Topic] += evaluation.Score
	}

	topics := make([]TopicStat, 0, len(byTopic))
	for topic, stat := range byTopic {
		stat.AverageScore = totals[topic] / float64(stat.Questions)
		topics = append(topics, *stat)
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })

	return &ResultReport{
		QuestionCount: len(result.Questions),
		CorrectCount:  result.CorrectCount(),
		AverageScore:  result.AverageScore(),
		TimeTaken:     result.TimeTaken,
		Config:        result.Config,
		Topics:        topics,
		Timestamp:     result.Timestamp,
	}
}
