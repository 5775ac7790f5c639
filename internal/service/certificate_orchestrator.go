package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/auth"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/response"
)

const sourceCertificate = "certificate"

// User-facing certificate messages.
const (
	MsgCertificateDownloaded = "Certificate downloaded successfully"
	MsgGenerateFailed        = "Failed to generate certificate"
	MsgDownloadFailed        = "Failed to download certificate"
	MsgVerifyFailed          = "Failed to verify certificate"
)

// ErrNoCertificate is returned by actions that need an issued certificate.
var ErrNoCertificate = errors.New("no certificate has been issued")

// View is what the course page should render.
type View string

const (
	ViewPending     View = "PENDING"
	ViewQuiz        View = "QUIZ"
	ViewPassed      View = "PASSED"
	ViewCertificate View = "CERTIFICATE"
)

// CertificateDeps groups the collaborators of a CertificateOrchestrator.
type CertificateDeps struct {
	Certificates CertificateGenerator
	Quizzes      QuizFetcher
	Attempts     AttemptSubmitter
	Credentials  auth.CredentialProvider
	Saver        Saver
	Opener       Opener
	Notifier     notify.Notifier
}

// CertificateOrchestrator decides between the quiz flow and the certificate
// on a course page. It asks for a certificate on mount and again once the
// attempt runner reports a pass.
type CertificateOrchestrator struct {
	mu         sync.Mutex
	courseID   string
	courseName string
	deps       CertificateDeps
	log        zerolog.Logger

	certificate  *model.Certificate
	quizPassed   bool
	generating   bool
	downloadPath string
	runner       *AttemptRunner
	life         lifetime
}

// NewCertificateOrchestrator creates an orchestrator for one course page.
func NewCertificateOrchestrator(courseID, courseName string, deps CertificateDeps, log zerolog.Logger) *CertificateOrchestrator {
	return &CertificateOrchestrator{
		courseID:   courseID,
		courseName: courseName,
		deps:       deps,
		log:        log.With().Str("component", "certificate").Str("course_id", courseID).Logger(),
		life:       newLifetime(),
	}
}

// ─── State ──────────────────────────────────────────────────

// View reports what should currently be shown. ViewPassed means the quiz
// was passed but no certificate has been issued yet; nothing is rendered
// and Retry asks again.
func (o *CertificateOrchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()
	switch {
	case o.certificate != nil:
		return ViewCertificate
	case o.generating:
		return ViewPending
	case o.quizPassed:
		return ViewPassed
	default:
		return ViewQuiz
	}
}

// QuizPassed reports whether a pass has been observed in this session.
func (o *CertificateOrchestrator) QuizPassed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.quizPassed
}

// Certificate returns the issued certificate, if any.
func (o *CertificateOrchestrator) Certificate() (model.Certificate, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.certificate == nil {
		return model.Certificate{}, false
	}
	return *o.certificate, true
}

// DownloadPath is where the certificate document was saved, if it was.
func (o *CertificateOrchestrator) DownloadPath() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.downloadPath
}

// Runner returns the attempt runner for this course, creating it on first
// use. A runner left in Passed after a failed generation is replaced.
func (o *CertificateOrchestrator) Runner() *AttemptRunner {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.runner == nil {
		o.runner = NewAttemptRunner(o.courseID, o.deps.Quizzes, o.deps.Attempts, o.deps.Notifier, o.onAttemptComplete, o.log)
	}
	return o.runner
}

// ─── Generation ─────────────────────────────────────────────

// Mount requests the certificate when a credential and course are present.
// A student who has not passed yet gets the quiz view without any notice.
func (o *CertificateOrchestrator) Mount(ctx context.Context) error {
	if o.courseID == "" {
		return nil
	}
	if _, err := o.deps.Credentials.Token(ctx); err != nil {
		o.log.Debug().Err(err).Msg("No credential, skipping certificate lookup")
		return nil
	}
	return o.generate(ctx)
}

// Retry re-runs certificate generation, e.g. after a transient failure or
// when the service had not yet recorded a pass.
func (o *CertificateOrchestrator) Retry(ctx context.Context) error {
	return o.generate(ctx)
}

func (o *CertificateOrchestrator) onAttemptComplete(ctx context.Context, passed bool) {
	if !passed {
		return
	}
	o.mu.Lock()
	o.quizPassed = true
	o.mu.Unlock()

	if err := o.generate(ctx); err != nil && !errors.Is(err, ErrClosed) {
		o.log.Warn().Err(err).Msg("Certificate generation after pass failed")
	}
}

func (o *CertificateOrchestrator) generate(ctx context.Context) error {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return ErrBusy
	}
	o.generating = true
	o.mu.Unlock()

	reqCtx, cancel := o.life.scope(ctx)
	defer cancel()

	result, err := o.deps.Certificates.Generate(reqCtx, o.courseID)

	o.mu.Lock()
	o.generating = false
	o.mu.Unlock()

	if o.life.closed() {
		return ErrClosed
	}
	if err != nil {
		return o.generationFailed(err)
	}

	o.mu.Lock()
	cert := result.Certificate
	o.certificate = &cert
	o.quizPassed = true
	o.mu.Unlock()

	o.log.Info().Str("certificate_id", cert.CertificateID).Msg("Certificate issued")

	if !result.HasDocument() {
		return nil
	}
	return o.download(result.EncodedDocument)
}

func (o *CertificateOrchestrator) generationFailed(err error) error {
	if response.CodeOf(err) == response.ErrNotEligible {
		o.log.Debug().Err(err).Msg("Not eligible for a certificate yet")
		return nil
	}

	o.log.Error().Err(err).Msg("Error generating certificate")

	o.mu.Lock()
	o.quizPassed = false
	if o.runner != nil && o.runner.State() == StatePassed {
		o.runner.Close()
		o.runner = nil
	}
	o.mu.Unlock()

	o.notify(notify.LevelError, response.MessageOf(err, MsgGenerateFailed))
	return err
}

// download materialises the document. Failures here keep the certificate
// metadata so the certificate view still renders.
func (o *CertificateOrchestrator) download(encoded string) error {
	data, err := model.DecodeDocument(encoded)
	if err != nil {
		o.log.Error().Err(err).Msg("Error decoding certificate document")
		o.notify(notify.LevelError, MsgDownloadFailed)
		return err
	}

	path, err := o.deps.Saver.Save(model.CertificateFileName(o.courseName), data)
	if err != nil {
		o.log.Error().Err(err).Msg("Error saving certificate document")
		o.notify(notify.LevelError, MsgDownloadFailed)
		return err
	}

	o.mu.Lock()
	o.downloadPath = path
	o.mu.Unlock()

	o.log.Info().Str("path", path).Int("bytes", len(data)).Msg("Certificate saved")
	o.notify(notify.LevelSuccess, MsgCertificateDownloaded)
	return nil
}

// ─── Verification ───────────────────────────────────────────

// ShareLink returns the public verification URL of the certificate.
func (o *CertificateOrchestrator) ShareLink() (string, error) {
	cert, ok := o.Certificate()
	if !ok || cert.CertificateID == "" {
		return "", ErrNoCertificate
	}
	return o.deps.Certificates.VerifyURL(cert.CertificateID), nil
}

// Verify opens the verification page in a new browsing context.
func (o *CertificateOrchestrator) Verify() error {
	link, err := o.ShareLink()
	if err != nil {
		o.notify(notify.LevelError, MsgVerifyFailed)
		return err
	}
	if err := o.deps.Opener.Open(link); err != nil {
		o.log.Error().Err(err).Str("url", link).Msg("Error opening verification page")
		o.notify(notify.LevelError, MsgVerifyFailed)
		return err
	}
	return nil
}

// Close tears down the page: the runner is closed and late generation
// results are dropped.
func (o *CertificateOrchestrator) Close() {
	o.life.close()
	o.mu.Lock()
	runner := o.runner
	o.mu.Unlock()
	if runner != nil {
		runner.Close()
	}
}

func (o *CertificateOrchestrator) notify(level notify.Level, msg string) {
	if o.life.closed() {
		return
	}
	o.deps.Notifier.Notify(o.life.ctx, notify.New(level, sourceCertificate, o.courseID, msg))
}
