package model

const (
	// QuizSize is the number of questions every persisted quiz carries.
	QuizSize = 5
	// OptionCount is the number of options per question.
	OptionCount = 4
)

// Question is a single multiple-choice question of a course quiz.
type Question struct {
	QuestionText  string   `json:"questionText" validate:"notblank,max=2000"`
	Options       []string `json:"options" validate:"len=4,dive,notblank,max=500"`
	CorrectOption int      `json:"correctOption" validate:"min=0,max=3"`
}

// NewBlankQuestion returns the empty question the editor starts from.
func NewBlankQuestion() Question {
	return Question{
		QuestionText:  "",
		Options:       make([]string, OptionCount),
		CorrectOption: 0,
	}
}

// Clone returns a deep copy so callers can't mutate shared option slices.
func (q Question) Clone() Question {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	q.Options = opts
	return q
}

// Quiz is the single quiz bound to a course.
type Quiz struct {
	ID        string     `json:"_id,omitempty"`
	CourseID  string     `json:"courseId" validate:"required"`
	Questions []Question `json:"questions" validate:"len=5,dive"`
}

// QuizRequest is the payload for the create and update endpoints.
type QuizRequest struct {
	CourseID  string     `json:"courseId"`
	Questions []Question `json:"questions"`
}

// CloneQuestions deep-copies a question list.
func CloneQuestions(in []Question) []Question {
	out := make([]Question, len(in))
	for i, q := range in {
		out[i] = q.Clone()
	}
	return out
}
