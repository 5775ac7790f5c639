package service

import (
	"context"
	"errors"

	"github.com/stemsi/coursequiz/internal/model"
)

// QuizStore is the quiz CRUD surface of the quiz service.
type QuizStore interface {
	Get(ctx context.Context, courseID string) (*model.Quiz, error)
	Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error)
	Update(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error)
	Delete(ctx context.Context, courseID string) error
}

// QuizFetcher loads the quiz a student attempts.
type QuizFetcher interface {
	Get(ctx context.Context, courseID string) (*model.Quiz, error)
}

// AttemptSubmitter scores one attempt.
type AttemptSubmitter interface {
	Submit(ctx context.Context, courseID string, answers model.AnswerSet) (*model.AttemptResult, error)
}

// CertificateGenerator issues certificates and builds their verification links.
type CertificateGenerator interface {
	Generate(ctx context.Context, courseID string) (*model.CertificateResult, error)
	VerifyURL(certificateID string) string
}

// Saver materialises a downloaded document and returns where it ended up.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(url string) error
}

// Errors shared by the quiz views.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrBusy            = errors.New("a request is already in flight")
	ErrClosed          = errors.New("view has been closed")
	ErrInvalidState    = errors.New("operation not allowed in the current state")
)
