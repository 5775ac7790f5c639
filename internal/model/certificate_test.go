package model

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 3, 57, 1024, 64 * 1024} {
		data := make([]byte, n)
		_, err := rand.Read(data)
		require.NoError(t, err)

		decoded, err := DecodeDocument(EncodeDocument(data))
		require.NoError(t, err)
		require.Len(t, decoded, n)
		require.Equal(t, data, decoded)
	}
}

func TestDecodeDocumentTolerance(t *testing.T) {
	t.Parallel()

	pdf := []byte("%PDF-1.4 certificate")
	enc := EncodeDocument(pdf)

	decoded, err := DecodeDocument("data:application/pdf;base64," + enc)
	require.NoError(t, err)
	require.Equal(t, pdf, decoded)

	decoded, err = DecodeDocument(enc[:8] + "\n" + enc[8:] + "  ")
	require.NoError(t, err)
	require.Equal(t, pdf, decoded)

	_, err = DecodeDocument("   ")
	require.ErrorIs(t, err, ErrEmptyDocument)

	_, err = DecodeDocument("not*base64")
	require.Error(t, err)
}

func TestCertificateFileName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Go Basics-Certificate.pdf", CertificateFileName("Go Basics"))
	require.Equal(t, "Go Basics-Certificate.pdf", CertificateFileName("  Go Basics "))
	require.Equal(t, "CI-CD-Certificate.pdf", CertificateFileName("CI/CD"))
	require.Equal(t, "a-b-Certificate.pdf", CertificateFileName(`a\b`))
	require.Equal(t, "Course-Certificate.pdf", CertificateFileName(""))
}

func TestCertificateResultHasDocument(t *testing.T) {
	t.Parallel()

	require.False(t, (&CertificateResult{}).HasDocument())
	require.False(t, (&CertificateResult{EncodedDocument: " \n"}).HasDocument())
	require.True(t, (&CertificateResult{EncodedDocument: "JVBERg=="}).HasDocument())
}
