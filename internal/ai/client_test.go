package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soma-study/exam-service/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCompletionServer returns an OpenAI-compatible endpoint whose behavior is
// keyed on the bearer token, so key rotation can be observed per request.
func fakeCompletionServer(t *testing.T, handle func(key string, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Authorization")
		handle(key, w)
	}))
}

func writeCompletion(w http.ResponseWriter, content string) {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error": {"message": %q, "type": "invalid_request_error"}}`, message)
}

func newTestClient(t *testing.T, url string, keys ...string) *Client {
	t.Helper()
	c, err := NewClient(Config{APIKeys: keys, BaseURL: url + "/v1", Model: "test-model"}, testLogger())
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKeys(t *testing.T) {
	_, err := NewClient(Config{}, testLogger())
	assert.ErrorIs(t, err, ErrNoAPIKeys)
}

func TestGradeAnswerParsesEvaluation(t *testing.T) {
	srv := fakeCompletionServer(t, func(key string, w http.ResponseWriter) {
		writeCompletion(w, `{"score": 8.5, "feedback": "Good coverage", "strengths": ["clear"], "weaknesses": ["short"]}`)
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, "key-1")
	q := models.Question{Text: "Explain DNS.", Type: models.ShortAnswer, CorrectAnswer: "model answer"}

	evaluation, err := c.GradeAnswer(context.Background(), q, "DNS resolves names")
	require.NoError(t, err)
	assert.Equal(t, 8.5, evaluation.Score)
	assert.Equal(t, "Good coverage", evaluation.Feedback)
	assert.Equal(t, []string{"clear"}, evaluation.Strengths)
}

func TestGradeAnswerRejectsOutOfRangeScore(t *testing.T) {
	srv := fakeCompletionServer(t, func(key string, w http.ResponseWriter) {
		writeCompletion(w, `{"score": 12, "feedback": "over-enthusiastic"}`)
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, "key-1")
	_, err := c.GradeAnswer(context.Background(), models.Question{Type: models.Essay}, "text")
	assert.ErrorContains(t, err, "outside 0-10 range")
}

func TestGenerateRotatesKeysOnQuotaError(t *testing.T) {
	var seen []string
	srv := fakeCompletionServer(t, func(key string, w http.ResponseWriter) {
		seen = append(seen, key)
		if key == "Bearer exhausted-key" {
			writeAPIError(w, http.StatusTooManyRequests, "You exceeded your current quota")
			return
		}
		writeCompletion(w, `{"topics": ["Networking", "Security"]}`)
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, "exhausted-key", "good-key")
	materials := []models.Material{{Name: "notes.txt", Content: "aGVsbG8=", MimeType: "text/plain"}}

	topics, err := c.ExtractTopics(context.Background(), materials)
	require.NoError(t, err)
	assert.Equal(t, []string{"Networking", "Security"}, topics)
	assert.Equal(t, []string{"Bearer exhausted-key", "Bearer good-key"}, seen)
}

func TestGenerateFailsFastOnNonQuotaError(t *testing.T) {
	var calls int
	srv := fakeCompletionServer(t, func(key string, w http.ResponseWriter) {
		calls++
		writeAPIError(w, http.StatusBadRequest, "malformed request")
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, "key-1", "key-2")
	_, err := c.GenerateExam(context.Background(), models.ExamConfig{
		Type: models.ExamMixed, Difficulty: models.DifficultyBeginner,
		Intensity: models.IntensityModerate, NumQuestions: 5,
	}, []string{"Topic"})

	assert.Error(t, err)
	assert.Equal(t, 1, calls, "a fatal error must not consume further keys")
}

func TestGenerateKeyPoolExhaustion(t *testing.T) {
	srv := fakeCompletionServer(t, func(key string, w http.ResponseWriter) {
		writeAPIError(w, http.StatusTooManyRequests, "rate limit reached")
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL, "key-1", "key-2")
	_, err := c.GeneratePracticeQuiz(context.Background(), models.PracticeConfig{
		Topics:        []string{"Topic"},
		QuestionTypes: []models.QuestionType{models.MultipleChoice},
		Difficulty:    models.DifficultyBeginner,
		NumQuestions:  3,
	})

	assert.ErrorContains(t, err, "all AI providers failed or were unavailable")
}

func TestExtractTopicsEmptyMaterials(t *testing.T) {
	c := newTestClient(t, "http://unused", "key-1")
	topics, err := c.ExtractTopics(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, topics)
}

func TestIsQuotaErrorMessageHeuristics(t *testing.T) {
	assert.True(t, isQuotaError(fmt.Errorf("provider said: Quota exceeded for project")))
	assert.True(t, isQuotaError(fmt.Errorf("upstream rate limit hit")))
	assert.False(t, isQuotaError(fmt.Errorf("connection refused")))
}

func TestParseQuestionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name: "valid mixed batch",
			raw: `{"questions": [
				{"question": "Pick one.", "type": "Multiple Choice", "topic": "T", "options": ["a","b","c","d"], "correctAnswer": "a"},
				{"question": "The sky is ___.", "type": "Fill-in-the-Blank", "topic": "T", "correctAnswers": ["blue"]},
				{"question": "Match.", "type": "Matching", "topic": "T", "matchingPairs": [{"prompt": "p", "answer": "a"}]}
			]}`,
		},
		{
			name:    "missing questions array",
			raw:     `{"items": []}`,
			wantErr: "expected a 'questions' array",
		},
		{
			name:    "unknown type",
			raw:     `{"questions": [{"question": "Q", "type": "Oral Exam", "correctAnswer": "a"}]}`,
			wantErr: "unknown question type",
		},
		{
			name:    "multiple choice without four options",
			raw:     `{"questions": [{"question": "Q", "type": "Multiple Choice", "options": ["a","b"], "correctAnswer": "a"}]}`,
			wantErr: "must have 4 options",
		},
		{
			name:    "stray matchingPairs on true/false",
			raw:     `{"questions": [{"question": "Q", "type": "True/False", "correctAnswer": "True", "matchingPairs": [{"prompt": "p", "answer": "a"}]}]}`,
			wantErr: "must not carry matchingPairs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			questions, err := parseQuestions(tt.raw)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, questions, 3)
		})
	}
}
