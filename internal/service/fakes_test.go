package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/response"
)

func validQuestions() []model.Question {
	qs := make([]model.Question, model.QuizSize)
	for i := range qs {
		qs[i] = model.Question{
			QuestionText:  "What is " + string(rune('A'+i)) + "?",
			Options:       []string{"one", "two", "three", "four"},
			CorrectOption: i % model.OptionCount,
		}
	}
	return qs
}

func serviceError(msg string) error {
	return response.NewError(response.ErrService, http.StatusBadRequest, msg, nil)
}

func notFound() error {
	return response.NewError(response.ErrNotFound, http.StatusNotFound, "", nil)
}

// fakeQuizStore records calls. block, when set, makes calls wait for ctx.
type fakeQuizStore struct {
	mu      sync.Mutex
	quiz    *model.Quiz
	getErr  error
	saveErr error
	block   chan struct{}
	created []*model.Quiz
	gets    int
}

func (f *fakeQuizStore) wait(ctx context.Context) error {
	if f.block == nil {
		return nil
	}
	select {
	case <-f.block:
		return nil
	case <-ctx.Done():
		return response.NewError(response.ErrCanceled, 0, "", ctx.Err())
	}
}

func (f *fakeQuizStore) Get(ctx context.Context, courseID string) (*model.Quiz, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.quiz == nil {
		return nil, notFound()
	}
	q := *f.quiz
	q.Questions = model.CloneQuestions(f.quiz.Questions)
	return &q, nil
}

func (f *fakeQuizStore) Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, quiz)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return quiz, nil
}

func (f *fakeQuizStore) Update(_ context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.quiz = quiz
	return quiz, nil
}

func (f *fakeQuizStore) Delete(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.quiz = nil
	return nil
}

func (f *fakeQuizStore) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

// fakeSubmitter returns queued results in order.
type fakeSubmitter struct {
	mu      sync.Mutex
	results []*model.AttemptResult
	errs    []error
	calls   []model.AnswerSet
	block   chan struct{}
}

func (f *fakeSubmitter) Submit(ctx context.Context, _ string, answers model.AnswerSet) (*model.AttemptResult, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, response.NewError(response.ErrCanceled, 0, "", ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, answers.Clone())
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		r := *f.results[i]
		return &r, nil
	}
	return &model.AttemptResult{Passed: true, Message: "Passed"}, nil
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type generation struct {
	result *model.CertificateResult
	err    error
}

// fakeGenerator returns queued outcomes in order; past the end it reports
// the student as not eligible.
type fakeGenerator struct {
	mu       sync.Mutex
	outcomes []generation
	calls    int
	block    chan struct{}
}

func (f *fakeGenerator) Generate(ctx context.Context, _ string) (*model.CertificateResult, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, response.NewError(response.ErrCanceled, 0, "", ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i < len(f.outcomes) {
		return f.outcomes[i].result, f.outcomes[i].err
	}
	return nil, response.NewError(response.ErrNotEligible, http.StatusOK, "Quiz not passed", nil)
}

func (f *fakeGenerator) VerifyURL(id string) string {
	return "https://learn.example.com/certificate/verify/" + id
}

func (f *fakeGenerator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type savedFile struct {
	name string
	data []byte
}

type fakeSaver struct {
	mu    sync.Mutex
	files []savedFile
	err   error
}

func (f *fakeSaver) Save(name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.files = append(f.files, savedFile{name: name, data: data})
	return "/downloads/" + name, nil
}

func (f *fakeSaver) saved() []savedFile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]savedFile(nil), f.files...)
}

type fakeOpener struct {
	mu     sync.Mutex
	opened []string
	err    error
}

func (f *fakeOpener) Open(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, url)
	return nil
}
