package repository

import (
	"context"
	"net/http"

	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/response"
)

// AttemptRepository submits quiz attempts for scoring.
type AttemptRepository struct {
	client *Client
}

// NewAttemptRepository creates an AttemptRepository.
func NewAttemptRepository(client *Client) *AttemptRepository {
	return &AttemptRepository{client: client}
}

// Submit sends the ordered answers of one attempt.
// POST /quiz/submit
func (r *AttemptRepository) Submit(ctx context.Context, courseID string, answers model.AnswerSet) (*model.AttemptResult, error) {
	if err := requireCourseID(courseID); err != nil {
		return nil, err
	}
	if len(answers) == 0 || !answers.Complete() {
		return nil, response.NewError(response.ErrValidation, 0, "every question needs an answer", nil)
	}

	env, err := r.client.call(ctx, "submit_attempt", http.MethodPost, "/quiz/submit", nil, model.SubmitAttemptRequest{
		CourseID: courseID,
		Answers:  []int(answers.Clone()),
	})
	if err != nil {
		return nil, err
	}
	if env.QuizAttempt == nil {
		return nil, response.NewError(response.ErrInvalidPayload, http.StatusOK, "", nil)
	}

	result := *env.QuizAttempt
	if env.Message != "" {
		result.Message = env.Message
	}
	return &result, nil
}
