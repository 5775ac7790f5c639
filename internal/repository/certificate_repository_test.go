package repository

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/coursequiz/internal/model"
	"github.com/stemsi/coursequiz/internal/response"
	"github.com/stretchr/testify/require"
)

func TestCertificateRepositoryGenerate(t *testing.T) {
	t.Parallel()

	pdf := []byte("%PDF-1.7 certificate body")
	client := newFakeService(t, func(api *gin.RouterGroup) {
		api.POST("/course/generate-certificate", func(c *gin.Context) {
			var req model.GenerateCertificateRequest
			_ = c.ShouldBindJSON(&req)
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"certificate": gin.H{"certificateId": "CERT-" + req.CourseID},
				"pdfBuffer":   model.EncodeDocument(pdf),
			})
		})
	})

	result, err := NewCertificateRepository(client, "https://example.com/verify/").Generate(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "CERT-c1", result.Certificate.CertificateID)
	require.Equal(t, "c1", result.Certificate.CourseID)
	require.True(t, result.HasDocument())

	doc, err := model.DecodeDocument(result.EncodedDocument)
	require.NoError(t, err)
	require.Equal(t, pdf, doc)
}

func TestCertificateRepositoryIneligible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   gin.H
		code   response.ErrCode
	}{
		{"success false on 200", http.StatusOK, gin.H{"success": false, "message": "Quiz not passed"}, response.ErrNotEligible},
		{"forbidden", http.StatusForbidden, gin.H{"success": false, "message": "Not allowed"}, response.ErrNotEligible},
		{"explicit code", http.StatusBadRequest, gin.H{"success": false, "code": "QUIZ_NOT_PASSED"}, response.ErrNotEligible},
		{"plain service error", http.StatusBadRequest, gin.H{"success": false, "message": "Course archived"}, response.ErrService},
		{"server error", http.StatusServiceUnavailable, gin.H{"success": false}, response.ErrTransport},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newFakeService(t, func(api *gin.RouterGroup) {
				api.POST("/course/generate-certificate", func(c *gin.Context) {
					c.JSON(tt.status, tt.body)
				})
			})

			_, err := NewCertificateRepository(client, "").Generate(context.Background(), "c1")
			require.Equal(t, tt.code, response.CodeOf(err))
		})
	}
}

func TestCertificateRepositoryMissingCertificate(t *testing.T) {
	t.Parallel()

	client := newFakeService(t, func(api *gin.RouterGroup) {
		api.POST("/course/generate-certificate", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})

	_, err := NewCertificateRepository(client, "").Generate(context.Background(), "c1")
	require.Equal(t, response.ErrInvalidPayload, response.CodeOf(err))
}

func TestCertificateRepositoryVerifyURL(t *testing.T) {
	t.Parallel()

	repo := NewCertificateRepository(nil, "https://learn.example.com/certificate/verify/")
	require.Equal(t, "https://learn.example.com/certificate/verify/CERT-1", repo.VerifyURL("CERT-1"))
	require.Equal(t, "https://learn.example.com/certificate/verify/a%2Fb", repo.VerifyURL("a/b"))
}
