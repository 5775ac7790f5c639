package repository

import (
	"context"
	"net/http"

	"github.com/stemsi/coursequiz/internal/auth"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/response"
)

// QuizCache is an optional read-through cache for fetched quizzes. Entries
// are partitioned by scope, the fingerprint of the credential that fetched
// them, so one account never reads another's copy. Invalidate drops every
// scope of a course.
type QuizCache interface {
	Get(ctx context.Context, scope, courseID string) (*model.Quiz, bool, error)
	Set(ctx context.Context, scope string, quiz *model.Quiz) error
	Invalidate(ctx context.Context, courseID string) error
}

// QuizRepository wraps the quiz CRUD endpoints.
type QuizRepository struct {
	client *Client
	cache  QuizCache
}

// NewQuizRepository creates a QuizRepository. cache may be nil.
func NewQuizRepository(client *Client, cache QuizCache) *QuizRepository {
	return &QuizRepository{client: client, cache: cache}
}

// Create stores a new quiz for quiz.CourseID.
// POST /quiz/create
func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	if err := requireCourseID(quiz.CourseID); err != nil {
		return nil, err
	}

	env, err := r.client.call(ctx, "create_quiz", http.MethodPost, "/quiz/create", nil, model.QuizRequest{
		CourseID:  quiz.CourseID,
		Questions: quiz.Questions,
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, quiz.CourseID)

	return quizOrInput(env.Quiz, quiz), nil
}

// Get fetches the quiz of a course.
// GET /quiz/{courseId}
func (r *QuizRepository) Get(ctx context.Context, courseID string) (*model.Quiz, error) {
	if err := requireCourseID(courseID); err != nil {
		return nil, err
	}

	token, err := r.client.authorize(ctx)
	if err != nil {
		return nil, err
	}
	scope := auth.Fingerprint(token)

	if r.cache != nil {
		quiz, ok, err := r.cache.Get(ctx, scope, courseID)
		if err != nil {
			r.client.log.Warn().Err(err).Str("course_id", courseID).Msg("Quiz cache read failed")
		} else if ok {
			return quiz, nil
		}
	}

	env, err := r.client.call(ctx, "get_quiz", http.MethodGet, "/quiz/{courseId}",
		map[string]string{"courseId": courseID}, nil)
	if err != nil {
		return nil, err
	}
	if env.Quiz == nil {
		return nil, response.NewError(response.ErrInvalidPayload, http.StatusOK, "", nil)
	}

	quiz := env.Quiz
	if quiz.CourseID == "" {
		quiz.CourseID = courseID
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, scope, quiz); err != nil {
			r.client.log.Warn().Err(err).Str("course_id", courseID).Msg("Quiz cache write failed")
		}
	}
	return quiz, nil
}

// Update replaces the questions of an existing quiz.
// PUT /quiz/update
func (r *QuizRepository) Update(ctx context.Context, quiz *model.Quiz) (*model.Quiz, error) {
	if err := requireCourseID(quiz.CourseID); err != nil {
		return nil, err
	}

	env, err := r.client.call(ctx, "update_quiz", http.MethodPut, "/quiz/update", nil, model.QuizRequest{
		CourseID:  quiz.CourseID,
		Questions: quiz.Questions,
	})
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, quiz.CourseID)

	return quizOrInput(env.Quiz, quiz), nil
}

// Delete removes the quiz of a course.
// DELETE /quiz/{courseId}
func (r *QuizRepository) Delete(ctx context.Context, courseID string) error {
	if err := requireCourseID(courseID); err != nil {
		return err
	}

	if _, err := r.client.call(ctx, "delete_quiz", http.MethodDelete, "/quiz/{courseId}",
		map[string]string{"courseId": courseID}, nil); err != nil {
		return err
	}
	r.invalidate(ctx, courseID)
	return nil
}

func (r *QuizRepository) invalidate(ctx context.Context, courseID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, courseID); err != nil {
		r.client.log.Warn().Err(err).Str("course_id", courseID).Msg("Quiz cache invalidation failed")
	}
}

func quizOrInput(returned, input *model.Quiz) *model.Quiz {
	if returned != nil {
		if returned.CourseID == "" {
			returned.CourseID = input.CourseID
		}
		return returned
	}
	out := *input
	out.Questions = model.CloneQuestions(input.Questions)
	return &out
}
