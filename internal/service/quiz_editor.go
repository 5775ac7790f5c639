package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/validator"
)

const sourceQuizEditor = "quiz_editor"

// Authoring workflow steps the editor moves between.
const (
	StepCourseInfo = 1
	StepPublish    = 4
)

// User-facing editor messages.
const (
	MsgMaxQuestions   = "Maximum 5 questions allowed"
	MsgExactQuestions = "Please add exactly 5 questions"
)

// Editor errors.
var (
	ErrMaxQuestions  = errors.New("maximum number of questions reached")
	ErrQuestionCount = errors.New("quiz must have exactly 5 questions")
	ErrInvalidQuiz   = errors.New("quiz has blank or invalid fields")
)

// StepFunc receives the authoring step the workflow should move to.
type StepFunc func(step int)

// QuizEditor holds the instructor's local draft of a course quiz.
// Nothing is persisted until Submit.
type QuizEditor struct {
	mu        sync.Mutex
	courseID  string
	quizzes   *QuizService
	notifier  notify.Notifier
	onStep    StepFunc
	log       zerolog.Logger
	questions []model.Question
	saving    bool
	life      lifetime
}

// NewQuizEditor creates an editor holding a single blank question.
// onStep may be nil.
func NewQuizEditor(courseID string, quizzes *QuizService, notifier notify.Notifier, onStep StepFunc, log zerolog.Logger) *QuizEditor {
	return &QuizEditor{
		courseID:  courseID,
		quizzes:   quizzes,
		notifier:  notifier,
		onStep:    onStep,
		log:       log.With().Str("component", "quiz_editor").Str("course_id", courseID).Logger(),
		questions: []model.Question{model.NewBlankQuestion()},
		life:      newLifetime(),
	}
}

// Load pulls an existing quiz into the draft. Failures, "not found"
// included, are logged and leave the blank draft in place.
func (e *QuizEditor) Load(ctx context.Context) error {
	if e.courseID == "" {
		return nil
	}

	reqCtx, cancel := e.life.scope(ctx)
	defer cancel()

	quiz, err := e.quizzes.Find(reqCtx, e.courseID)
	if e.life.closed() {
		return ErrClosed
	}
	if err != nil {
		e.log.Info().Err(err).Msg("Starting from a blank quiz")
		return nil
	}
	if len(quiz.Questions) == 0 {
		return nil
	}

	e.mu.Lock()
	e.questions = model.CloneQuestions(quiz.Questions)
	e.mu.Unlock()
	return nil
}

// Questions returns a copy of the draft.
func (e *QuizEditor) Questions() []model.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneQuestions(e.questions)
}

// Count returns the number of questions in the draft.
func (e *QuizEditor) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.questions)
}

// Saving reports whether a submit is in flight.
func (e *QuizEditor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// CanRemove reports whether the remove control should be offered.
func (e *QuizEditor) CanRemove() bool {
	return e.Count() > 1
}

// AddQuestion appends a blank question while fewer than five exist.
func (e *QuizEditor) AddQuestion() error {
	e.mu.Lock()
	if len(e.questions) >= model.QuizSize {
		e.mu.Unlock()
		e.notify(notify.LevelError, MsgMaxQuestions)
		return ErrMaxQuestions
	}
	e.questions = append(e.questions, model.NewBlankQuestion())
	e.mu.Unlock()
	return nil
}

// RemoveQuestion deletes the question at index.
func (e *QuizEditor) RemoveQuestion(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.questions) {
		return ErrIndexOutOfRange
	}
	e.questions = append(e.questions[:index], e.questions[index+1:]...)
	return nil
}

// UpdateQuestionText sets the text of a question.
func (e *QuizEditor) UpdateQuestionText(index int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.questions) {
		return ErrIndexOutOfRange
	}
	e.questions[index].QuestionText = text
	return nil
}

// UpdateOption sets the text of one option.
func (e *QuizEditor) UpdateOption(index, option int, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.questions) || option < 0 || option >= len(e.questions[index].Options) {
		return ErrIndexOutOfRange
	}
	e.questions[index].Options[option] = text
	return nil
}

// SetCorrectOption marks which option of a question is correct.
func (e *QuizEditor) SetCorrectOption(index, option int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.questions) || option < 0 || option >= model.OptionCount {
		return ErrIndexOutOfRange
	}
	e.questions[index].CorrectOption = option
	return nil
}

// Submit persists the draft through the create endpoint. It refuses
// locally, without a network call, unless there are exactly five complete
// questions. A failed submit keeps the draft for another try.
func (e *QuizEditor) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.saving {
		e.mu.Unlock()
		return ErrBusy
	}
	if len(e.questions) != model.QuizSize {
		e.mu.Unlock()
		e.notify(notify.LevelError, MsgExactQuestions)
		return ErrQuestionCount
	}

	quiz := &model.Quiz{CourseID: e.courseID, Questions: model.CloneQuestions(e.questions)}
	if fields := validator.Struct(quiz); fields != nil {
		e.mu.Unlock()
		msg := firstFieldError(fields)
		e.notify(notify.LevelError, msg)
		return fmt.Errorf("%w: %s", ErrInvalidQuiz, msg)
	}
	e.saving = true
	e.mu.Unlock()

	reqCtx, cancel := e.life.scope(ctx)
	defer cancel()

	_, err := e.quizzes.Create(reqCtx, quiz)

	e.mu.Lock()
	e.saving = false
	e.mu.Unlock()

	if e.life.closed() {
		return ErrClosed
	}
	if err != nil {
		return err
	}

	e.step(StepPublish)
	return nil
}

// Back returns the authoring workflow to the course information step.
func (e *QuizEditor) Back() {
	e.step(StepCourseInfo)
}

// Close ends the editor's lifetime; in-flight results are discarded.
func (e *QuizEditor) Close() {
	e.life.close()
}

func (e *QuizEditor) step(s int) {
	if e.onStep != nil {
		e.onStep(s)
	}
}

func (e *QuizEditor) notify(level notify.Level, msg string) {
	if e.life.closed() {
		return
	}
	e.notifier.Notify(e.life.ctx, notify.New(level, sourceQuizEditor, e.courseID, msg))
}

// firstFieldError picks a stable message out of a validation error map.
func firstFieldError(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s: %s", keys[0], fields[keys[0]])
}
