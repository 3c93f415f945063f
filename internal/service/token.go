package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned for malformed, expired or foreign tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrSecretRequired is returned when no signing secret is configured.
	ErrSecretRequired = errors.New("jwt secret is required")
)

// OperatorClaims identifies the operator behind an admin request.
type OperatorClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 operator tokens.
type TokenService interface {
	// Issue signs a token for subject valid for ttl.
	Issue(subject, name string, ttl time.Duration) (string, error)
	// Verify validates a token and returns its claims.
	Verify(tokenString string) (*OperatorClaims, error)
}

// TokenServiceImpl implements TokenService.
type TokenServiceImpl struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

// NewTokenService creates a token service signing with secret.
func NewTokenService(secret, issuer string) (*TokenServiceImpl, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	return &TokenServiceImpl{
		secretKey: []byte(secret),
		issuer:    issuer,
		now:       time.Now,
	}, nil
}

// Issue signs a new operator token.
func (s *TokenServiceImpl) Issue(subject, name string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	now := s.now()
	claims := &OperatorClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString, checking signature, method, expiry and issuer.
func (s *TokenServiceImpl) Verify(tokenString string) (*OperatorClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secretKey, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
