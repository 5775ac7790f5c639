package model

// Unanswered marks a question the student has not picked an option for yet.
const Unanswered = -1

// AnswerSet maps question index to the selected option index, in question order.
type AnswerSet []int

// NewAnswerSet returns an answer set with every entry Unanswered.
func NewAnswerSet(n int) AnswerSet {
	a := make(AnswerSet, n)
	a.Reset()
	return a
}

// Reset marks every entry Unanswered.
func (a AnswerSet) Reset() {
	for i := range a {
		a[i] = Unanswered
	}
}

// Complete reports whether every question has a selection.
func (a AnswerSet) Complete() bool {
	for _, v := range a {
		if v == Unanswered {
			return false
		}
	}
	return true
}

// Clone returns a copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	copy(out, a)
	return out
}

// SubmitAttemptRequest is the payload for the submit endpoint.
type SubmitAttemptRequest struct {
	CourseID string `json:"courseId"`
	Answers  []int  `json:"answers"`
}

// AttemptResult is the scored outcome of one attempt.
type AttemptResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}
