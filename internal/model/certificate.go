package model

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyDocument is returned when a certificate carries no document bytes.
var ErrEmptyDocument = errors.New("certificate document is empty")

// Certificate is the server-issued proof of course completion.
type Certificate struct {
	CertificateID string     `json:"certificateId"`
	CourseID      string     `json:"courseId,omitempty"`
	IssuedAt      *time.Time `json:"issuedAt,omitempty"`
}

// CertificateResult is a generated certificate plus its PDF in transport
// encoding (base64), if the service returned one.
type CertificateResult struct {
	Certificate     Certificate
	EncodedDocument string
}

// HasDocument reports whether the service sent document bytes along.
func (r *CertificateResult) HasDocument() bool {
	return strings.TrimSpace(r.EncodedDocument) != ""
}

// GenerateCertificateRequest is the payload for the certificate endpoint.
type GenerateCertificateRequest struct {
	CourseID string `json:"courseId"`
}

// DecodeDocument turns the base64 transport encoding into raw PDF bytes.
// A data-URL prefix and embedded whitespace are tolerated.
func DecodeDocument(encoded string) ([]byte, error) {
	s := encoded
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, ErrEmptyDocument
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode certificate document: %w", err)
	}
	return data, nil
}

// EncodeDocument is the inverse of DecodeDocument.
func EncodeDocument(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// CertificateFileName returns the download name for a course certificate.
func CertificateFileName(courseName string) string {
	name := strings.TrimSpace(courseName)
	name = strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	if name == "" {
		name = "Course"
	}
	return name + "-Certificate.pdf"
}
