package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/soma-study/exam-service/internal/models"
)

type topicsResponse struct {
	Topics []string `json:"topics"`
}

type questionsResponse struct {
	Questions []models.Question `json:"questions"`
}

// ExtractTopics asks the model for the key topics covered by the uploaded
// course materials.
func (c *Client) ExtractTopics(ctx context.Context, materials []models.Material) ([]string, error) {
	if len(materials) == 0 {
		return nil, nil
	}

	parts := materialParts(materials)
	parts = append(parts, openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: topicsPrompt,
	})
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, MultiContent: parts},
	}

	raw, err := c.generate(ctx, messages)
	if err != nil {
		return nil, err
	}

	var parsed topicsResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parsing topics response: %w", err)
	}
	if parsed.Topics == nil {
		return nil, fmt.Errorf("invalid JSON structure for topics received from API")
	}
	return parsed.Topics, nil
}

// GenerateExam produces the question list for a timed exam over the given
// topics.
func (c *Client) GenerateExam(ctx context.Context, cfg models.ExamConfig, topics []string) ([]models.Question, error) {
	raw, err := c.generate(ctx, userMessage(buildExamPrompt(cfg, topics)))
	if err != nil {
		return nil, err
	}
	questions, err := parseQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing exam questions: %w", err)
	}
	return questions, nil
}

// GeneratePracticeQuiz produces the question list for an untimed practice
// quiz.
func (c *Client) GeneratePracticeQuiz(ctx context.Context, cfg models.PracticeConfig) ([]models.Question, error) {
	raw, err := c.generate(ctx, userMessage(buildPracticePrompt(cfg)))
	if err != nil {
		return nil, err
	}
	questions, err := parseQuestions(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing practice quiz questions: %w", err)
	}
	return questions, nil
}

// GradeAnswer asks the model for a detailed evaluation of a free-text answer.
// The caller owns the topic and the correctness threshold.
func (c *Client) GradeAnswer(ctx context.Context, q models.Question, answer string) (models.Evaluation, error) {
	raw, err := c.generate(ctx, userMessage(buildGradingPrompt(q, answer)))
	if err != nil {
		return models.Evaluation{}, err
	}

	var evaluation models.Evaluation
	if err := json.Unmarshal([]byte(raw), &evaluation); err != nil {
		return models.Evaluation{}, fmt.Errorf("parsing detailed evaluation response: %w", err)
	}
	if evaluation.Score < 0 || evaluation.Score > models.MaxScore {
		return models.Evaluation{}, fmt.Errorf("evaluation score %v outside 0-10 range", evaluation.Score)
	}
	return evaluation, nil
}

func parseQuestions(raw string) ([]models.Question, error) {
	var parsed questionsResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, err
	}
	if parsed.Questions == nil {
		return nil, fmt.Errorf("invalid JSON structure received from API, expected a 'questions' array")
	}
	for i := range parsed.Questions {
		if err := validateGenerated(&parsed.Questions[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	return parsed.Questions, nil
}

// validateGenerated enforces the closed type set and the one-answer-field
// invariant at the system boundary.
func validateGenerated(q *models.Question) error {
	if q.Text == "" {
		return fmt.Errorf("missing question text")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unknown question type %q", q.Type)
	}

	switch q.Type {
	case models.MultipleChoice:
		if len(q.Options) != 4 {
			return fmt.Errorf("multiple choice question must have 4 options, got %d", len(q.Options))
		}
		if q.CorrectAnswer == "" {
			return fmt.Errorf("multiple choice question missing correctAnswer")
		}
	case models.TrueFalse, models.ShortAnswer, models.Essay:
		if q.CorrectAnswer == "" {
			return fmt.Errorf("%s question missing correctAnswer", q.Type)
		}
	case models.FillInBlank:
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("fill-in-the-blank question missing correctAnswers")
		}
	case models.Matching:
		if len(q.MatchingPairs) == 0 {
			return fmt.Errorf("matching question missing matchingPairs")
		}
	}

	if q.Type != models.FillInBlank && len(q.CorrectAnswers) > 0 {
		return fmt.Errorf("%s question must not carry correctAnswers", q.Type)
	}
	if q.Type != models.Matching && len(q.MatchingPairs) > 0 {
		return fmt.Errorf("%s question must not carry matchingPairs", q.Type)
	}
	return nil
}
