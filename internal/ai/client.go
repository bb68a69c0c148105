package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/soma-study/exam-service/internal/models"
)

// Gateway is the single logical collaborator that generates questions and
// grades subjective answers. Responses are schema-shaped JSON parsed and
// validated by the client.
type Gateway interface {
	ExtractTopics(ctx context.Context, materials []models.Material) ([]string, error)
	GenerateExam(ctx context.Context, cfg models.ExamConfig, topics []string) ([]models.Question, error)
	GeneratePracticeQuiz(ctx context.Context, cfg models.PracticeConfig) ([]models.Question, error)
	GradeAnswer(ctx context.Context, q models.Question, answer string) (models.Evaluation, error)
}

// ErrNoAPIKeys is returned when the client is constructed without credentials.
var ErrNoAPIKeys = errors.New("no AI API keys configured")

type Config struct {
	APIKeys []string
	BaseURL string
	Model   string
}

// Client talks to an OpenAI-compatible completion endpoint backed by a pool
// of credential keys tried in order. A quota or rate-limit failure on one key
// silently retries the identical request against the next key; any other
// error fails immediately.
type Client struct {
	keys    []string
	baseURL string
	model   string
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, ErrNoAPIKeys
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		keys:    cfg.APIKeys,
		baseURL: cfg.BaseURL,
		model:   model,
		logger:  logger,
	}, nil
}

func (c *Client) apiFor(key string) *openai.Client {
	config := openai.DefaultConfig(key)
	if c.baseURL != "" {
		config.BaseURL = c.baseURL
	}
	return openai.NewClientWithConfig(config)
}

// generate runs one JSON-mode completion, rotating through the key pool on
// quota errors. On exhaustion the last quota error is returned.
func (c *Client) generate(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	var lastErr error
	for i, key := range c.keys {
		resp, err := c.apiFor(key).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    c.model,
			Messages: messages,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			if !isQuotaError(err) {
				return "", err
			}
			c.logger.Warn("API key quota likely exceeded, trying next key",
				"key_index", i,
				"error", err)
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("model returned no choices")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}
	return "", fmt.Errorf("all AI providers failed or were unavailable: %w", lastErr)
}

// isQuotaError separates retryable quota/rate-limit failures from fatal ones.
func isQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit")
}

// materialParts renders uploaded files as message parts. Images travel as
// data URLs; everything else is decoded and inlined as text.
func materialParts(materials []models.Material) []openai.ChatMessagePart {
	parts := make([]openai.ChatMessagePart, 0, len(materials))
	for _, m := range materials {
		if strings.HasPrefix(m.MimeType, "image/") {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", m.MimeType, m.Content),
				},
			})
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(m.Content)
		if err != nil {
			// Not valid base64; pass the raw content through.
			decoded = []byte(m.Content)
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: fmt.Sprintf("--- %s ---\n%s", m.Name, string(decoded)),
		})
	}
	return parts
}

func userMessage(prompt string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
}
