package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/stemsi/coursequiz/internal/auth"
	"github.com/stemsi/coursequiz/internal/browser"
	"github.com/stemsi/coursequiz/internal/repository"
	"github.com/stemsi/coursequiz/internal/service"
	"github.com/stemsi/coursequiz/internal/storage"
)

var errCertificatePending = errors.New("quiz passed but the certificate is not issued yet, run learn again later")

func runLearn(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("learn", flag.ContinueOnError)
	courseID := fs.String("course", "", "Course ID")
	courseName := fs.String("name", "", "Course name, used for the certificate file name")
	open := fs.Bool("open", false, "Open the verification page once a certificate is issued")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *courseID == "" {
		return errCourseRequired
	}

	creds := a.credentials()
	if claims, err := creds.Claims(ctx); err == nil && claims.AccountType == auth.AccountTypeInstructor {
		a.log.Warn().Msg("Signed in as an instructor; attempts may not count towards a certificate")
	}

	client := a.client()
	notifier := a.notifier(ctx)
	orch := service.NewCertificateOrchestrator(*courseID, *courseName, service.CertificateDeps{
		Certificates: repository.NewCertificateRepository(client, a.cfg.VerifyBaseURL),
		Quizzes:      a.quizRepository(ctx, client),
		Attempts:     repository.NewAttemptRepository(client),
		Credentials:  creds,
		Saver:        storage.NewFileSaver(a.cfg.DownloadDir, a.log),
		Opener:       browser.NewOpener(),
		Notifier:     notifier,
	}, a.log)
	defer orch.Close()

	if err := orch.Mount(ctx); err != nil {
		a.log.Debug().Err(err).Msg("Certificate lookup on mount failed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if orch.View() == service.ViewQuiz {
		if err := takeQuiz(ctx, orch.Runner(), os.Stdin, os.Stdout); err != nil {
			return err
		}
	}

	switch orch.View() {
	case service.ViewCertificate:
	case service.ViewPassed:
		return errCertificatePending
	default:
		return errors.New("no certificate was issued")
	}
	return showCertificate(orch, *open)
}

// takeQuiz runs attempts until the student passes or input ends.
func takeQuiz(ctx context.Context, runner *service.AttemptRunner, in io.Reader, out io.Writer) error {
	if err := runner.Load(ctx); err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	for runner.State() != service.StatePassed {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n=== Attempt %d ===\n", runner.Attempts()+1)
		for i, q := range runner.Questions() {
			if err := askQuestion(reader, out, runner, i, q.QuestionText, q.Options); err != nil {
				return err
			}
		}

		if _, err := runner.Submit(ctx); err != nil && !errors.Is(err, service.ErrUnanswered) {
			if errors.Is(err, service.ErrClosed) {
				return err
			}
			if !confirm(reader, out, "Submission failed. Try again?") {
				return err
			}
		}
	}
	return nil
}

func askQuestion(reader *bufio.Reader, out io.Writer, runner *service.AttemptRunner, index int, text string, options []string) error {
	fmt.Fprintf(out, "\n%d. %s\n", index+1, text)
	for o, opt := range options {
		fmt.Fprintf(out, "   %d) %s\n", o+1, opt)
	}

	for {
		fmt.Fprint(out, "Your answer: ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return fmt.Errorf("read answer: %w", err)
		}

		choice, convErr := strconv.Atoi(line)
		if convErr == nil {
			if selErr := runner.SelectAnswer(index, choice-1); selErr == nil {
				return nil
			}
		}
		fmt.Fprintf(out, "Please enter a number between 1 and %d\n", len(options))
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
	}
}

func confirm(reader *bufio.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [Y/n]: ", prompt)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	default:
		return false
	}
}

func showCertificate(orch *service.CertificateOrchestrator, open bool) error {
	cert, _ := orch.Certificate()
	fmt.Printf("\nCertificate ID: %s\n", cert.CertificateID)
	if path := orch.DownloadPath(); path != "" {
		fmt.Printf("Saved to:       %s\n", path)
	}

	link, err := orch.ShareLink()
	if err != nil {
		return err
	}
	fmt.Printf("Share link:     %s\n", link)

	if open {
		return orch.Verify()
	}
	return nil
}

func runVerify(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	certID := fs.String("cert", "", "Certificate ID")
	printOnly := fs.Bool("print", false, "Print the verification link instead of opening it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *certID == "" {
		return errors.New("-cert is required")
	}

	certificates := repository.NewCertificateRepository(nil, a.cfg.VerifyBaseURL)
	link := certificates.VerifyURL(*certID)
	fmt.Println(link)
	if *printOnly {
		return nil
	}
	return browser.NewOpener().Open(link)
}
