package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/response"
)

const sourceQuizService = "quiz_service"

// QuizService puts user notifications on top of the pure QuizStore calls.
type QuizService struct {
	store    QuizStore
	notifier notify.Notifier
	log      zerolog.Logger
}

// NewQuizService creates a QuizService.
func NewQuizService(store QuizStore, notifier notify.Notifier, log zerolog.Logger) *QuizService {
	return &QuizService{
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create stores a new quiz and reports the outcome.
func (s *QuizService) Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	out, err := s.store.Create(ctx, quiz)
	if err != nil {
		s.log.Error().Err(err).Str("course_id", quiz.CourseID).Msg("CREATE_QUIZ_API error")
		s.report(ctx, notify.LevelError, quiz.CourseID, response.MessageOf(err, "Failed to create quiz"), err)
		return nil, err
	}
	s.report(ctx, notify.LevelSuccess, quiz.CourseID, "Quiz created successfully", nil)
	return out, nil
}

// Get fetches a quiz and reports failures.
func (s *QuizService) Get(ctx context.Context, courseID string) (*model.Quiz, error) {
	quiz, err := s.store.Get(ctx, courseID)
	if err != nil {
		s.log.Error().Err(err).Str("course_id", courseID).Msg("GET_QUIZ_API error")
		s.report(ctx, notify.LevelError, courseID, response.MessageOf(err, "Failed to fetch quiz"), err)
		return nil, err
	}
	return quiz, nil
}

// Find fetches a quiz without notifying; failures are only logged.
// The editor uses it so first-time authoring doesn't start with an error.
func (s *QuizService) Find(ctx context.Context, courseID string) (*model.Quiz, error) {
	quiz, err := s.store.Get(ctx, courseID)
	if err != nil {
		s.log.Debug().Err(err).Str("course_id", courseID).Msg("No existing quiz loaded")
		return nil, err
	}
	return quiz, nil
}

// Update replaces the questions of a quiz and reports the outcome.
func (s *QuizService) Update(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	out, err := s.store.Update(ctx, quiz)
	if err != nil {
		s.log.Error().Err(err).Str("course_id", quiz.CourseID).Msg("UPDATE_QUIZ_API error")
		s.report(ctx, notify.LevelError, quiz.CourseID, response.MessageOf(err, "Failed to update quiz"), err)
		return nil, err
	}
	s.report(ctx, notify.LevelSuccess, quiz.CourseID, "Quiz updated successfully", nil)
	return out, nil
}

// Delete removes a quiz and reports the outcome.
func (s *QuizService) Delete(ctx context.Context, courseID string) error {
	if err := s.store.Delete(ctx, courseID); err != nil {
		s.log.Error().Err(err).Str("course_id", courseID).Msg("DELETE_QUIZ_API error")
		s.report(ctx, notify.LevelError, courseID, response.MessageOf(err, "Failed to delete quiz"), err)
		return err
	}
	s.report(ctx, notify.LevelSuccess, courseID, "Quiz deleted successfully", nil)
	return nil
}

// report drops notifications once the caller's context is gone: the view
// that would have shown them no longer exists.
func (s *QuizService) report(ctx context.Context, level notify.Level, courseID, msg string, err error) {
	if ctx.Err() != nil || response.CodeOf(err) == response.ErrCanceled {
		return
	}
	s.notifier.Notify(ctx, notify.New(level, sourceQuizService, courseID, msg))
}
