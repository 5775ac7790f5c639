package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

// Common credential errors.
var (
	ErrNoCredential      = errors.New("no bearer credential available")
	ErrCredentialExpired = errors.New("bearer credential has expired")
)

// AccountType mirrors the platform's account roles.
type AccountType string

const (
	AccountTypeStudent    AccountType = "Student"
	AccountTypeInstructor AccountType = "Instructor"
	AccountTypeAdmin      AccountType = "Admin"
)

// CredentialProvider hands out the bearer token attached to service calls.
// Implementations are read-only from the caller's perspective.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredential is a fixed token, typically read from the environment.
type StaticCredential string

// Token returns the token or ErrNoCredential when it is empty.
func (s StaticCredential) Token(context.Context) (string, error) {
	tok := strings.TrimSpace(string(s))
	if tok == "" {
		return "", ErrNoCredential
	}
	return tok, nil
}

// Claims is the subset of the platform's JWT payload the client reads.
type Claims struct {
	jwt.RegisteredClaims
	Email       string      `json:"email,omitempty"`
	UserID      string      `json:"id,omitempty"`
	AccountType AccountType `json:"accountType,omitempty"`
}

// JWTCredential wraps another provider and rejects tokens whose exp claim
// has passed, so expired sessions fail before any request is sent.
// Tokens that are not JWTs are passed through untouched.
type JWTCredential struct {
	source CredentialProvider
	leeway time.Duration
	now    func() time.Time
}

// NewJWTCredential creates a JWTCredential over source.
func NewJWTCredential(source CredentialProvider, leeway time.Duration) *JWTCredential {
	return &JWTCredential{source: source, leeway: leeway, now: time.Now}
}

// Token returns the wrapped token if it is not expired.
func (p *JWTCredential) Token(ctx context.Context) (string, error) {
	tok, err := p.source.Token(ctx)
	if err != nil {
		return "", err
	}

	claims, ok := parseClaims(tok)
	if !ok {
		return tok, nil
	}
	if claims.ExpiresAt != nil && p.now().After(claims.ExpiresAt.Time.Add(p.leeway)) {
		return "", ErrCredentialExpired
	}
	return tok, nil
}

// Claims returns the decoded claims of the current token. The signature is
// not verified; only the service can do that.
func (p *JWTCredential) Claims(ctx context.Context) (*Claims, error) {
	tok, err := p.Token(ctx)
	if err != nil {
		return nil, err
	}
	claims, ok := parseClaims(tok)
	if !ok {
		return &Claims{}, nil
	}
	return claims, nil
}

func parseClaims(tok string) (*Claims, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Fingerprint derives a stable, non-reversible identifier for a token.
// Unverified claims are never used as an identity.
func Fingerprint(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
