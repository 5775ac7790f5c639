package response

import (
	"github.com/goccy/go-json"
	"github.com/stemsi/coursequiz/internal/model"
)

// Envelope is the body shape every quiz service endpoint replies with.
// Only the fields relevant to the called endpoint are populated.
type Envelope struct {
	Success     bool                 `json:"success"`
	Message     string               `json:"message,omitempty"`
	Code        string               `json:"code,omitempty"`
	Quiz        *model.Quiz          `json:"quiz,omitempty"`
	QuizAttempt *model.AttemptResult `json:"quizAttempt,omitempty"`
	Certificate *model.Certificate   `json:"certificate,omitempty"`
	PDFBuffer   string               `json:"pdfBuffer,omitempty"`
}

// DecodeEnvelope parses a raw response body.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
