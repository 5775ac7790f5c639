package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/notify"
)

const sourceQuizAttempt = "quiz_attempt"

// User-facing attempt messages.
const (
	MsgLoadQuizFailed   = "Failed to load quiz"
	MsgAnswerAll        = "Please answer all questions"
	MsgSubmitQuizFailed = "Failed to submit quiz"
	msgPassedFallback   = "Quiz passed"
	msgFailedFallback   = "Quiz not passed, please try again"
)

// Attempt errors.
var (
	ErrUnanswered    = errors.New("all questions must be answered")
	ErrMalformedQuiz = fmt.Errorf("quiz must have %d questions of %d options", model.QuizSize, model.OptionCount)
)

// AttemptState is the runner's position in the attempt flow.
type AttemptState string

const (
	StateLoading     AttemptState = "LOADING"
	StateReady       AttemptState = "READY"
	StateSubmitting  AttemptState = "SUBMITTING"
	StatePassed      AttemptState = "PASSED"
	StateUnavailable AttemptState = "UNAVAILABLE"
)

// CompletionFunc is told once that the student passed.
type CompletionFunc func(ctx context.Context, passed bool)

// AttemptRunner drives one student's attempts at a course quiz:
// Loading → Ready → Submitting → Passed, with a failed attempt returning
// to Ready. Retries are unlimited.
type AttemptRunner struct {
	mu         sync.Mutex
	courseID   string
	quizzes    QuizFetcher
	attempts   AttemptSubmitter
	notifier   notify.Notifier
	onComplete CompletionFunc
	log        zerolog.Logger

	state       AttemptState
	questions   []model.Question
	answers     model.AnswerSet
	submissions int
	completed   bool
	life        lifetime
}

// NewAttemptRunner creates a runner in the Loading state. onComplete may be nil.
func NewAttemptRunner(
	courseID string,
	quizzes QuizFetcher,
	attempts AttemptSubmitter,
	notifier notify.Notifier,
	onComplete CompletionFunc,
	log zerolog.Logger,
) *AttemptRunner {
	return &AttemptRunner{
		courseID:   courseID,
		quizzes:    quizzes,
		attempts:   attempts,
		notifier:   notifier,
		onComplete: onComplete,
		log:        log.With().Str("component", "quiz_attempt").Str("course_id", courseID).Logger(),
		state:      StateLoading,
		life:       newLifetime(),
	}
}

// Load fetches the quiz. On failure the runner becomes Unavailable; there
// is no automatic retry.
func (r *AttemptRunner) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateLoading {
		r.mu.Unlock()
		return ErrInvalidState
	}
	r.mu.Unlock()

	reqCtx, cancel := r.life.scope(ctx)
	defer cancel()

	quiz, err := r.quizzes.Get(reqCtx, r.courseID)
	if r.life.closed() {
		return ErrClosed
	}
	if err == nil && !attemptable(quiz) {
		err = ErrMalformedQuiz
	}
	if err != nil {
		r.log.Error().Err(err).Msg("Error fetching quiz")
		r.mu.Lock()
		r.state = StateUnavailable
		r.mu.Unlock()
		r.notify(notify.LevelError, MsgLoadQuizFailed)
		return err
	}

	r.mu.Lock()
	r.questions = model.CloneQuestions(quiz.Questions)
	r.answers = model.NewAnswerSet(len(quiz.Questions))
	r.state = StateReady
	r.mu.Unlock()
	return nil
}

// State returns the current state.
func (r *AttemptRunner) State() AttemptState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Questions returns the loaded questions.
func (r *AttemptRunner) Questions() []model.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	return model.CloneQuestions(r.questions)
}

// Answers returns a copy of the current selections.
func (r *AttemptRunner) Answers() model.AnswerSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answers.Clone()
}

// Attempts returns how many attempts reached the service.
func (r *AttemptRunner) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submissions
}

// SelectAnswer records the option picked for a question, replacing any
// earlier pick.
func (r *AttemptRunner) SelectAnswer(question, option int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateReady {
		return ErrInvalidState
	}
	if question < 0 || question >= len(r.questions) {
		return ErrIndexOutOfRange
	}
	if option < 0 || option >= len(r.questions[question].Options) {
		return ErrIndexOutOfRange
	}
	r.answers[question] = option
	return nil
}

// Submit sends the answers for scoring. With open questions it only
// notifies and returns ErrUnanswered. A failed attempt resets every answer;
// a transport or service error keeps them.
func (r *AttemptRunner) Submit(ctx context.Context) (*model.AttemptResult, error) {
	r.mu.Lock()
	switch r.state {
	case StateReady:
	case StateSubmitting:
		r.mu.Unlock()
		return nil, ErrBusy
	default:
		r.mu.Unlock()
		return nil, ErrInvalidState
	}
	if !r.answers.Complete() {
		r.mu.Unlock()
		r.notify(notify.LevelError, MsgAnswerAll)
		return nil, ErrUnanswered
	}
	answers := r.answers.Clone()
	r.state = StateSubmitting
	r.mu.Unlock()

	reqCtx, cancel := r.life.scope(ctx)
	defer cancel()

	result, err := r.attempts.Submit(reqCtx, r.courseID, answers)
	if r.life.closed() {
		return nil, ErrClosed
	}

	r.mu.Lock()
	if err != nil {
		r.state = StateReady
		r.mu.Unlock()
		r.log.Error().Err(err).Msg("Error submitting quiz")
		r.notify(notify.LevelError, MsgSubmitQuizFailed)
		return nil, err
	}

	r.submissions++
	if !result.Passed {
		r.answers.Reset()
		r.state = StateReady
		r.mu.Unlock()
		r.notify(notify.LevelError, messageOr(result.Message, msgFailedFallback))
		return result, nil
	}

	r.state = StatePassed
	fire := !r.completed
	r.completed = true
	r.mu.Unlock()

	r.notify(notify.LevelSuccess, messageOr(result.Message, msgPassedFallback))
	if fire && r.onComplete != nil {
		r.onComplete(ctx, true)
	}
	return result, nil
}

// Close ends the runner's lifetime. Results still in flight are dropped.
func (r *AttemptRunner) Close() {
	r.life.close()
}

func (r *AttemptRunner) notify(level notify.Level, msg string) {
	if r.life.closed() {
		return
	}
	r.notifier.Notify(r.life.ctx, notify.New(level, sourceQuizAttempt, r.courseID, msg))
}

// attemptable reports whether every question can be answered.
func attemptable(quiz *model.Quiz) bool {
	if quiz == nil || len(quiz.Questions) != model.QuizSize {
		return false
	}
	for _, q := range quiz.Questions {
		if len(q.Options) != model.OptionCount {
			return false
		}
	}
	return true
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
