package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/response"
)

// Service codes that mean "the student has not passed yet".
var notEligibleCodes = map[string]struct{}{
	"NOT_ELIGIBLE":    {},
	"QUIZ_NOT_PASSED": {},
}

// CertificateRepository generates certificates and builds verification links.
type CertificateRepository struct {
	client        *Client
	verifyBaseURL string
}

// NewCertificateRepository creates a CertificateRepository.
func NewCertificateRepository(client *Client, verifyBaseURL string) *CertificateRepository {
	return &CertificateRepository{
		client:        client,
		verifyBaseURL: strings.TrimRight(verifyBaseURL, "/"),
	}
}

// Generate asks the service for the certificate of courseID. The call is
// idempotent server-side: it returns the existing certificate after a pass.
// A student who has not passed yet gets a *response.Error with ErrNotEligible.
// POST /course/generate-certificate
func (r *CertificateRepository) Generate(ctx context.Context, courseID string) (*model.CertificateResult, error) {
	if err := requireCourseID(courseID); err != nil {
		return nil, err
	}

	env, err := r.client.call(ctx, "generate_certificate", http.MethodPost, "/course/generate-certificate", nil,
		model.GenerateCertificateRequest{CourseID: courseID})
	if err != nil {
		return nil, classifyCertificateError(env, err)
	}
	if env.Certificate == nil || env.Certificate.CertificateID == "" {
		return nil, response.NewError(response.ErrInvalidPayload, http.StatusOK, "", nil)
	}

	cert := *env.Certificate
	if cert.CourseID == "" {
		cert.CourseID = courseID
	}
	return &model.CertificateResult{Certificate: cert, EncodedDocument: env.PDFBuffer}, nil
}

// VerifyURL returns the public verification link of a certificate.
func (r *CertificateRepository) VerifyURL(certificateID string) string {
	return r.verifyBaseURL + "/" + url.PathEscape(certificateID)
}

// classifyCertificateError separates "not passed yet" from genuine failures.
// Ineligibility is an explicit code, a 403, or a 200 carrying success:false.
func classifyCertificateError(env *response.Envelope, err error) error {
	var e *response.Error
	if !errors.As(err, &e) || e.Code != response.ErrService {
		return err
	}

	ineligible := e.Status == http.StatusForbidden || e.Status == http.StatusOK
	if env != nil {
		if _, ok := notEligibleCodes[strings.ToUpper(env.Code)]; ok {
			ineligible = true
		}
	}
	if !ineligible {
		return err
	}

	ne := response.NewError(response.ErrNotEligible, e.Status, e.Message, nil)
	ne.RequestID = e.RequestID
	return ne
}
