package auth

import (
	"errors"
	"fmt"
	"time"

	"eventconnect/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// NoExpiry disables the exp claim on issued tokens.
const NoExpiry = -1

var errEmptySecret = errors.New("jwt secret must not be empty")

type jwtClaims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// JWTService issues and verifies HS256 identity tokens. The subject is the profile email.
type JWTService struct {
	secret []byte
	ttl    int64
	now    func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock sets the clock used to check expiry on Verify.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService returns a JWTService signing with secret. ttlSeconds is the lifetime of
// issued tokens; NoExpiry (or any negative value) produces tokens without exp.
func NewJWTService(secret string, ttlSeconds int64, opts ...Option) (*JWTService, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	s := &JWTService{secret: []byte(secret), ttl: ttlSeconds, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var (
	_ domain.TokenIssuer   = (*JWTService)(nil)
	_ domain.TokenVerifier = (*JWTService)(nil)
)

// Issue signs a token for subject at now.
func (s *JWTService) Issue(subject string, roles []string, now time.Time) (string, error) {
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Roles: roles,
	}
	if s.ttl >= 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(s.ttl) * time.Second))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry and returns the subject and roles.
func (s *JWTService) Verify(tokenString string) (string, []string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	claims := &jwtClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", domain.ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return "", nil, fmt.Errorf("%w: missing subject", domain.ErrMalformedToken)
	}
	return claims.Subject, claims.Roles, nil
}

// ParseSubject decodes the token and returns its subject without checking signature or expiry.
// Use it only for diagnostics such as logging who presented a rejected token.
func (s *JWTService) ParseSubject(tokenString string) (string, error) {
	claims := &jwtClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", domain.ErrMalformedToken)
	}
	return claims.Subject, nil
}
