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
	"github.com/soma-study/exam-service/internal/session"
	"github.com/soma-study/exam-service/internal/utils"
)

const (
	practiceCacheKeyPrefix = "practice_session:"
	practiceSnapshotTTL    = 24 * time.Hour
)

type practiceEntry struct {
	mu       sync.Mutex
	practice *session.Practice
}

type practiceService struct {
	gateway   ai.Gateway
	evaluator *evaluator.Evaluator
	cache     cache.Store
	publisher events.EventPublisher
	validator *utils.Validator
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*practiceEntry
}

func NewPracticeService(deps Deps) PracticeService {
	return &practiceService{
		gateway:   deps.Gateway,
		evaluator: deps.Evaluator,
		cache:     deps.Cache,
		publisher: deps.Publisher,
		validator: deps.Validator,
		logger:    deps.Logger,
		sessions:  make(map[string]*practiceEntry),
	}
}

// Start generates a practice quiz over the selected topics and types. The
// topic and type selections are validated before the gateway is called.
func (s *practiceService) Start(ctx context.Context, userID string, req *StartPracticeRequest) (*PracticeSessionView, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, err)
	}

	s.logger.Info("Starting practice quiz generation",
		"user_id", userID,
		"topics", len(req.Config.Topics),
		"num_questions", req.Config.NumQuestions)

	questions, err := s.gateway.GeneratePracticeQuiz(ctx, req.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate practice quiz: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	practice := session.NewPractice(uuid.NewString(), userID, questions, req.Config)
	entry := &practiceEntry{practice: practice}

	s.mu.Lock()
	s.sessions[practice.ID] = entry
	s.mu.Unlock()
	s.snapshot(ctx, practice)

	s.logger.Info("Practice session started",
		"session_id", practice.ID,
		"user_id", userID,
		"question_count", len(questions))
	return practiceView(practice), nil
}

func (s *practiceService) Get(ctx context.Context, userID, sessionID string) (*PracticeSessionView, error) {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return practiceView(entry.practice), nil
}

func (s *practiceService) Answer(ctx context.Context, userID, sessionID string, answer models.UserAnswer) error {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.practice.SetAnswer(answer); err != nil {
		return err
	}
	s.snapshot(ctx, entry.practice)
	return nil
}

// Check evaluates the current answer exactly once.
func (s *practiceService) Check(ctx context.Context, userID, sessionID string) (*models.Evaluation, error) {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	evaluation, err := entry.practice.Check(ctx, s.evaluator)
	if err != nil {
		return nil, err
	}
	s.snapshot(ctx, entry.practice)
	return &evaluation, nil
}

// Next advances past a checked question; advancing off the last question
// finishes the session and publishes the final score.
func (s *practiceService) Next(ctx context.Context, userID, sessionID string) (*PracticeSessionView, error) {
	entry, err := s.entryFor(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	practice := entry.practice
	if err := practice.Next(); err != nil {
		return nil, err
	}

	if practice.Finished {
		correct, total := practice.Score()
		s.publish(ctx, events.NewExamEvent(events.EventPracticeFinished, events.PracticeFinishedEvent{
			SessionID:     practice.ID,
			UserID:        practice.UserID,
			QuestionCount: total,
			CorrectCount:  correct,
		}))

		s.mu.Lock()
		delete(s.sessions, practice.ID)
		s.mu.Unlock()
		if err := s.cache.Delete(ctx, practiceCacheKeyPrefix+practice.ID); err != nil {
			s.logger.Warn("Failed to drop practice snapshot", "session_id", practice.ID, "error", err)
		}

		s.logger.Info("Practice session finished",
			"session_id", practice.ID,
			"user_id", practice.UserID,
			"correct", correct,
			"total", total)
	} else {
		s.snapshot(ctx, practice)
	}
	return practiceView(practice), nil
}

func (s *practiceService) entryFor(ctx context.Context, userID, sessionID string) (*practiceEntry, error) {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		var practice session.Practice
		if err := s.cache.Get(ctx, practiceCacheKeyPrefix+sessionID, &practice); err != nil {
			return nil, ErrSessionNotFound
		}
		entry = &practiceEntry{practice: &practice}
		s.mu.Lock()
		if existing, raced := s.sessions[sessionID]; raced {
			entry = existing
		} else {
			s.sessions[sessionID] = entry
		}
		s.mu.Unlock()
		s.logger.Info("Resumed practice session from snapshot", "session_id", sessionID)
	}

	if entry.practice.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	return entry, nil
}

func (s *practiceService) snapshot(ctx context.Context, practice *session.Practice) {
	if err := s.cache.Set(ctx, practiceCacheKeyPrefix+practice.ID, practice, practiceSnapshotTTL); err != nil {
		s.logger.Warn("Failed to snapshot practice session", "session_id", practice.ID, "error", err)
	}
}

func (s *practiceService) publish(ctx context.Context, event *events.ExamEvent) {
	if err := s.publisher.PublishExamEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func practiceView(practice *session.Practice) *PracticeSessionView {
	view := &PracticeSessionView{
		SessionID:     practice.ID,
		Current:       practice.Current,
		QuestionCount: len(practice.Questions),
		Answer:        practice.Answer,
		Evaluation:    practice.Evaluation,
		CorrectCount:  practice.CorrectCount,
		Finished:      practice.Finished,
	}
	if !practice.Finished {
		q := practice.Questions[practice.Current]
		view.Question = &q
	}
	return view
}
