package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/auth"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/repository"
	"github.com/stemsi/coursequiz/internal/service"
	"github.com/stretchr/testify/require"
)

const questionsJSON = `[
	{"questionText":"Q1","options":["a","b","c","d"],"correctOption":0},
	{"questionText":"Q2","options":["a","b","c","d"],"correctOption":1},
	{"questionText":"Q3","options":["a","b","c","d"],"correctOption":2},
	{"questionText":"Q4","options":["a","b","c","d"],"correctOption":3},
	{"questionText":"Q5","options":["a","b","c","d"],"correctOption":0}
]`

func TestParseQuestions(t *testing.T) {
	t.Parallel()

	qs, err := parseQuestions([]byte(questionsJSON))
	require.NoError(t, err)
	require.Len(t, qs, model.QuizSize)
	require.Equal(t, 3, qs[3].CorrectOption)

	qs, err = parseQuestions([]byte(`{"courseId":"c1","questions":` + questionsJSON + `}`))
	require.NoError(t, err)
	require.Len(t, qs, model.QuizSize)

	_, err = parseQuestions([]byte(`{"questions":`))
	require.Error(t, err)
}

func TestFillDraft(t *testing.T) {
	t.Parallel()

	qs, err := parseQuestions([]byte(questionsJSON))
	require.NoError(t, err)

	rec := notify.NewRecorder()
	editor := service.NewQuizEditor("c1", nil, rec, nil, zerolog.Nop())
	require.NoError(t, fillDraft(editor, qs))
	require.Equal(t, qs, editor.Questions())

	require.NoError(t, fillDraft(editor, qs[:2]))
	require.Equal(t, 2, editor.Count())

	qs[0].CorrectOption = 7
	require.Error(t, fillDraft(editor, qs[:1]))
}

func TestFillDraftRejectsPartialOptions(t *testing.T) {
	t.Parallel()

	qs, err := parseQuestions([]byte(questionsJSON))
	require.NoError(t, err)

	editor := service.NewQuizEditor("c1", nil, notify.NewRecorder(), nil, zerolog.Nop())
	require.NoError(t, fillDraft(editor, qs))

	edited := model.CloneQuestions(qs)
	edited[2].Options = []string{"x", "y"}
	err = fillDraft(editor, edited)
	require.ErrorIs(t, err, errOptionCount)
	require.Equal(t, qs, editor.Questions())

	edited[2].Options = []string{"a", "b", "c", "d", "e"}
	require.ErrorIs(t, fillDraft(editor, edited), errOptionCount)
}

func TestTakeQuizRetriesUntilPassed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	qs, err := parseQuestions([]byte(questionsJSON))
	require.NoError(t, err)

	submissions := make(chan []int, 4)
	engine := gin.New()
	api := engine.Group("/api/v1")
	api.GET("/quiz/:courseId", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "quiz": gin.H{"questions": qs}})
	})
	api.POST("/quiz/submit", func(c *gin.Context) {
		var req model.SubmitAttemptRequest
		_ = c.ShouldBindJSON(&req)
		submissions <- req.Answers
		passed := req.Answers[0] == 0
		msg := "Try again"
		if passed {
			msg = "Well done"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": msg, "quizAttempt": gin.H{"passed": passed}})
	})
	srv := httptest.NewServer(engine)
	defer srv.Close()

	client := repository.NewClient(srv.URL+"/api/v1", 5*time.Second, auth.StaticCredential("tok"), zerolog.Nop())
	rec := notify.NewRecorder()
	runner := service.NewAttemptRunner("c1", repository.NewQuizRepository(client, nil),
		repository.NewAttemptRepository(client), rec, nil, zerolog.Nop())

	// First attempt answers 2 everywhere (fails), the second starts with an
	// invalid entry, then answers 1 (passes).
	in := strings.NewReader("2\n2\n2\n2\n2\n9\n1\n1\n1\n1\n1\n")
	var out bytes.Buffer

	require.NoError(t, takeQuiz(context.Background(), runner, in, &out))
	require.Equal(t, service.StatePassed, runner.State())
	require.Equal(t, []int{1, 1, 1, 1, 1}, <-submissions)
	require.Equal(t, []int{0, 0, 0, 0, 0}, <-submissions)
	require.Equal(t, []string{"Try again", "Well done"}, rec.Messages())
	require.Contains(t, out.String(), "Please enter a number between 1 and 4")
	require.Contains(t, out.String(), "=== Attempt 2 ===")
}
