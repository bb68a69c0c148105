package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/soma-study/exam-service/internal/models"
)

const (
	exportSheetSummary   = "Summary"
	exportSheetQuestions = "Questions"
	exportSheetTopics    = "Topics"
)

// buildResultWorkbook renders one exam result as an XLSX workbook with a
// summary sheet, a per-question sheet and a per-topic sheet.
func buildResultWorkbook(result *models.ExamResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	report := BuildReport(result)

	// Summary sheet.
	f.SetSheetName("Sheet1", exportSheetSummary)
	summaryRows := [][]interface{}{
		{"Exam Type", string(result.Config.Type)},
		{"Difficulty", string(result.Config.Difficulty)},
		{"Intensity", string(result.Config.Intensity)},
		{"Questions", report.QuestionCount},
		{"Correct", report.CorrectCount},
		{"Average Score", report.AverageScore},
		{"Time Taken", formatDuration(report.TimeTaken)},
		{"Taken At", result.Timestamp.Format(time.RFC3339)},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetSummary, cell, &row); err != nil {
			return nil, err
		}
	}

	// Per-question sheet.
	if _, err := f.NewSheet(exportSheetQuestions); err != nil {
		return nil, err
	}
	header := []interface{}{"#", "Question", "Type", "Topic", "Your Answer", "Correct Answer", "Score", "Correct", "Feedback"}
	if err := f.SetSheetRow(exportSheetQuestions, "A1", &header); err != nil {
		return nil, err
	}
	for i, q := range result.Questions {
		row := []interface{}{
			i + 1,
			q.Text,
			string(q.Type),
			q.Topic,
			result.UserAnswers[i].String(),
			correctAnswerDisplay(q),
			result.Evaluations[i].Score,
			result.Evaluations[i].IsCorrect,
			result.Evaluations[i].Feedback,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetQuestions, cell, &row); err != nil {
			return nil, err
		}
	}

	// Per-topic sheet.
	if _, err := f.NewSheet(exportSheetTopics); err != nil {
		return nil, err
	}
	topicHeader := []interface{}{"Topic", "Questions", "Correct", "Average Score"}
	if err := f.SetSheetRow(exportSheetTopics, "A1", &topicHeader); err != nil {
		return nil, err
	}
	for i, stat := range report.Topics {
		row := []interface{}{stat.Topic, stat.Questions, stat.Correct, stat.AverageScore}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheetTopics, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func correctAnswerDisplay(q models.Question) string {
	switch q.Type {
	case models.FillInBlank:
		return models.BlanksAnswer(q.CorrectAnswers).String()
	case models.Matching:
		matches := make(map[string]string, len(q.MatchingPairs))
		for _, pair := range q.MatchingPairs {
			matches[pair.Prompt] = pair.Answer
		}
		return models.MatchesAnswer(matches).String()
	default:
		return q.CorrectAnswer
	}
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
