package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soma-study/exam-service/internal/ai"
	"github.com/soma-study/exam-service/internal/cache"
	"github.com/soma-study/exam-service/internal/evaluator"
	"github.com/soma-study/exam-service/internal/events"
	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/repositories"
	"github.com/soma-study/exam-service/internal/session"
	"github.com/soma-study/exam-service/internal/utils"
)

const examCacheKeyPrefix = "exam_session:"

// examEntry pairs a session with its own lock so grading one exam never
// blocks another.
type examEntry struct {
	mu   sync.Mutex
	exam *session.Exam
}

type examService struct {
	gateway   ai.Gateway
	evaluator *evaluator.Evaluator
	repo      repositories.Repository
	cache     cache.Store
	publisher events.EventPublisher
	validator *utils.Validator
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*examEntry
}

func NewExamService(deps Deps) ExamService {
	return &examService{
		gateway:   deps.Gateway,
		evaluator: deps.Evaluator,
		repo:      deps.Repo,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		validator: deps.Validator,
		logger:    deps.Logger,
		sessions:  make(map[string]*examEntry),
	}
}

// Start extracts topics from the uploaded materials, generates the question
// list and opens a new timed session. All input validation happens before
// any gateway call.
func (s *examService) Start(ctx context.Context, userID string, req *StartExamRequest) (*ExamSessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}
	if len(req.Materials) == 0 {
		return nil, ErrNoMaterials
	}

	s.logger.Info("Starting exam generation",
		"user_id", userID,
		"exam_type", req.Config.Type,
		"num_questions", req.Config.NumQuestions)

	topics, err := s.gateway.ExtractTopics(ctx, req.Materials)
	if err != nil {
		return nil, fmt.Errorf("failed to extract topics: %w", err)
	}
	if len(topics) == 0 {
		return nil, ErrNoTopicsExtracted
	}

	questions, err := s.gateway.GenerateExam(ctx, req.Config, topics)
	if err != nil {
		return nil, fmt.Errorf("failed to generate exam: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	exam := session.NewExam(uuid.NewString(), userID, questions, req.Config)
	entry := &examEntry{exam: exam}

	s.mu.Lock()
	s.sessions[exam.ID] = entry
	s.mu.Unlock()

	s.snapshot(ctx, exam)
	s.publish(ctx, events.NewExamEvent(events.EventExamStarted, events.ExamStartedEvent{
		SessionID:     exam.ID,
		UserID:        userID,
		QuestionCount: len(questions),
		TotalTime:     exam.TotalTime,
		StartedAt:     exam.StartedAt,
	}))

	s.logger.Info("Exam session started",
		"session_id", exam.ID,
		"user_id", userID,
		"question_count", len(questions),
		"total_time", exam.TotalTime)

	return examView(exam), nil
}

func (s *examService) Get(ctx context.Context, userID, sessionID string) (*ExamSessionView, error) {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return examView(entry.exam), nil
}

func (s *examService) Answer(ctx context.Context, userID, sessionID string, req *AnswerRequest) error {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.exam.Answer(req.Index, req.Answer); err != nil {
		return err
	}
	s.snapshot(ctx, entry.exam)
	return nil
}

func (s *examService) Next(ctx context.Context, userID, sessionID string) (*ExamSessionView, error) {
	return s.navigate(ctx, userID, sessionID, true)
}

func (s *examService) Previous(ctx context.Context, userID, sessionID string) (*ExamSessionView, error) {
	return s.navigate(ctx, userID, sessionID, false)
}

func (s *examService) navigate(ctx context.Context, userID, sessionID string, forward bool) (*ExamSessionView, error) {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if forward {
		entry.exam.Next()
	} else {
		entry.exam.Previous()
	}
	s.snapshot(ctx, entry.exam)
	return examView(entry.exam), nil
}

// Submit grades the whole session sequentially and persists the result.
// A session the countdown has already finished returns its stored result.
func (s *examService) Submit(ctx context.Context, userID, sessionID string) (*models.ExamResult, error) {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, entry, false)
}

func (s *examService) submit(ctx context.Context, entry *examEntry, forced bool) (*models.ExamResult, error) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	exam := entry.exam
	if exam.State == session.StateCompleted {
		// A concurrent submit already graded this session; return its result
		// without emitting another submitted event.
		if exam.Result == nil {
			return nil, session.ErrAlreadyFinished
		}
		return exam.Result, nil
	}

	s.publish(ctx, events.NewExamEvent(events.EventExamSubmitted, events.ExamSubmittedEvent{
		SessionID:   exam.ID,
		UserID:      exam.UserID,
		SubmittedAt: time.Now(),
		Forced:      forced,
	}))

	result, err := exam.Submit(ctx, s.evaluator)
	if err != nil {
		// Context cancellation mid-grading; the session stays in Submitting.
		s.snapshot(ctx, exam)
		return nil, err
	}

	record, err := models.NewExamResultRecord(exam.UserID, result)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize exam result: %w", err)
	}
	if err := s.repo.History().Append(ctx, record); err != nil {
		// The grading outcome is still returned; only the history write failed.
		s.logger.Error("Failed to persist exam result",
			"session_id", exam.ID,
			"user_id", exam.UserID,
			"error", err)
	}

	s.publish(ctx, events.NewExamEvent(events.EventExamGraded, events.ExamGradedEvent{
		SessionID:     exam.ID,
		UserID:        exam.UserID,
		ResultID:      record.ID,
		QuestionCount: len(result.Questions),
		CorrectCount:  result.CorrectCount(),
		AverageScore:  result.AverageScore(),
		TimeTaken:     result.TimeTaken,
	}))

	s.mu.Lock()
	delete(s.sessions, exam.ID)
	s.mu.Unlock()
	if err := s.cache.Delete(ctx, examCacheKeyPrefix+exam.ID); err != nil {
		s.logger.Warn("Failed to drop session snapshot", "session_id", exam.ID, "error", err)
	}

	s.logger.Info("Exam graded",
		"session_id", exam.ID,
		"user_id", exam.UserID,
		"correct_count", result.CorrectCount(),
		"time_taken", result.TimeTaken,
		"forced", forced)
	return result, nil
}

// Run ticks every active session once per second. Sessions whose countdown
// reaches zero are force-submitted in the background.
func (s *examService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tickAll(ctx)
		}
	}
}

func (s *examService) tickAll(ctx context.Context) {
	s.mu.Lock()
	entries := make([]*examEntry, 0, len(s.sessions))
	for _, entry := range s.sessions {
		entries = append(entries, entry)
	}
	s.mu.Unlock()

	for _, entry := range entries {
		// A busy entry is mid-submit and holds its lock for the whole grading
		// loop; blocking here would stall every other session's countdown.
		if !entry.mu.TryLock() {
			continue
		}
		expired := entry.exam.Tick()
		id := entry.exam.ID
		entry.mu.Unlock()

		if expired {
			s.logger.Info("Exam countdown expired, forcing submission", "session_id", id)
			go func(e *examEntry) {
				if _, err := s.submit(context.Background(), e, true); err != nil {
					s.logger.Error("Failed to auto-submit expired exam",
						"session_id", id, "error", err)
				}
			}(entry)
		}
	}
}

// entryFor resolves a live session, falling back to the cache snapshot so a
// restarted instance can resume in-progress exams.
func (s *examService) entryFor(ctx context.Context, userID, sessionID string) (*examEntry, error) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		var exam session.Exam
		if err := s.cache.Get(ctx, examCacheKeyPrefix+sessionID, &exam); err != nil {
			return nil, ErrSessionNotFound
		}
		entry = &examEntry{exam: &exam}
		s.mu.Lock()
		if existing, raced := s.sessions[sessionID]; raced {
			entry = existing
		} else {
			s.sessions[sessionID] = entry
		}
		s.mu.Unlock()
		s.logger.Info("Resumed exam session from snapshot", "session_id", sessionID)
	}

	if entry.exam.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	return entry, nil
}

func (s *examService) snapshot(ctx context.Context, exam *session.Exam) {
	ttl := time.Duration(exam.TotalTime+300) * time.Second
	if err := s.cache.Set(ctx, examCacheKeyPrefix+exam.ID, exam, ttl); err != nil {
		s.logger.Warn("Failed to snapshot exam session", "session_id", exam.ID, "error", err)
	}
}

func (s *examService) publish(ctx context.Context, event *events.ExamEvent) {
	if err := s.publisher.PublishExamEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func examView(exam *session.Exam) *ExamSessionView {
	return &ExamSessionView{
		SessionID:     exam.ID,
		State:         exam.State,
		Current:       exam.Current,
		QuestionCount: len(exam.Questions),
		TimeLeft:      exam.TimeLeft,
		TotalTime:     exam.TotalTime,
		Questions:     exam.Questions,
		Answers:       exam.Answers,
	}
}
