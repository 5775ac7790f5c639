package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/service"
	"github.com/stemsi/coursequiz/internal/validator"
)

var (
	errCourseRequired = errors.New("-course is required")
	errOptionCount    = fmt.Errorf("each question needs exactly %d options", model.OptionCount)
)

func runAuthor(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("author", flag.ContinueOnError)
	courseID := fs.String("course", "", "Course ID")
	file := fs.String("file", "", "Path to a JSON file with the questions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courseID == "" {
		return errCourseRequired
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	questions, err := readQuestionsFile(*file)
	if err != nil {
		return err
	}

	notifier := a.notifier(ctx)
	quizzes := service.NewQuizService(a.quizRepository(ctx, a.client()), notifier, a.log)

	published := false
	editor := service.NewQuizEditor(*courseID, quizzes, notifier, func(step int) {
		published = step == service.StepPublish
	}, a.log)
	defer editor.Close()

	if err := editor.Load(ctx); err != nil {
		return err
	}
	if err := fillDraft(editor, questions); err != nil {
		return err
	}
	if err := editor.Submit(ctx); err != nil {
		return err
	}
	if published {
		fmt.Printf("Quiz for course %s saved with %d questions\n", *courseID, editor.Count())
	}
	return nil
}

// fillDraft makes the editor's draft match questions, going through the
// same operations an instructor would use. Every question must list all
// options, otherwise text loaded from an existing quiz would survive.
func fillDraft(editor *service.QuizEditor, questions []model.Question) error {
	for i, q := range questions {
		if len(q.Options) != model.OptionCount {
			return fmt.Errorf("question %d: %w", i+1, errOptionCount)
		}
	}

	for editor.Count() < len(questions) {
		if err := editor.AddQuestion(); err != nil {
			return err
		}
	}
	for editor.Count() > len(questions) {
		if err := editor.RemoveQuestion(editor.Count() - 1); err != nil {
			return err
		}
	}

	for i, q := range questions {
		if err := editor.UpdateQuestionText(i, q.QuestionText); err != nil {
			return err
		}
		for o, text := range q.Options {
			if err := editor.UpdateOption(i, o, text); err != nil {
				return err
			}
		}
		if err := editor.SetCorrectOption(i, q.CorrectOption); err != nil {
			return fmt.Errorf("question %d: correct option %d: %w", i+1, q.CorrectOption, err)
		}
	}
	return nil
}

func runShow(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	courseID := fs.String("course", "", "Course ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courseID == "" {
		return errCourseRequired
	}

	quizzes := service.NewQuizService(a.quizRepository(ctx, a.client()), a.notifier(ctx), a.log)
	quiz, err := quizzes.Get(ctx, *courseID)
	if err != nil {
		return err
	}

	fmt.Printf("Quiz for course %s\n", quiz.CourseID)
	for i, q := range quiz.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.QuestionText)
		for o, opt := range q.Options {
			marker := " "
			if o == q.CorrectOption {
				marker = "*"
			}
			fmt.Printf("   %s %c) %s\n", marker, 'A'+o, opt)
		}
	}
	return nil
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	courseID := fs.String("course", "", "Course ID")
	file := fs.String("file", "", "Path to a JSON file with the questions")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courseID == "" {
		return errCourseRequired
	}

	questions, err := readQuestionsFile(*file)
	if err != nil {
		return err
	}

	quiz := &model.Quiz{CourseID: *courseID, Questions: questions}
	if fields := validator.Struct(quiz); fields != nil {
		for field, msg := range fields {
			a.log.Error().Str("field", field).Msg(msg)
		}
		return service.ErrInvalidQuiz
	}

	quizzes := service.NewQuizService(a.quizRepository(ctx, a.client()), a.notifier(ctx), a.log)
	_, err = quizzes.Update(ctx, quiz)
	return err
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	courseID := fs.String("course", "", "Course ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courseID == "" {
		return errCourseRequired
	}

	quizzes := service.NewQuizService(a.quizRepository(ctx, a.client()), a.notifier(ctx), a.log)
	return quizzes.Delete(ctx, *courseID)
}

// readQuestionsFile accepts either a bare question array or an object with
// a "questions" field.
func readQuestionsFile(path string) ([]model.Question, error) {
	if path == "" {
		return nil, errors.New("-file is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}
	return parseQuestions(raw)
}

func parseQuestions(raw []byte) ([]model.Question, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var questions []model.Question
		if err := json.Unmarshal(raw, &questions); err != nil {
			return nil, fmt.Errorf("parse questions: %w", err)
		}
		return questions, nil
	}

	var doc model.QuizRequest
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	return doc.Questions, nil
}
