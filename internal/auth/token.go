package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/clock"
	"github.com/spec-kit/blog-service/internal/domain"
)

// ErrTokenInvalid covers every verification failure: bad signature,
// malformed token, expiry or missing subject.
var ErrTokenInvalid = errors.New("invalid token")

const defaultTokenTTL = time.Hour

// TokenService issues and verifies HS256 bearer tokens. It keeps no state
// besides the signing secret, so replacing the secret invalidates every
// outstanding token at once.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	clock  clock.Clock
}

// NewTokenService builds a new service.
func NewTokenService(secret string, ttl time.Duration, issuer string, clk clock.Clock) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if clk == nil {
		clk = clock.New()
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, issuer: issuer, clock: clk}
}

// TTL returns the lifetime of issued tokens.
func (ts *TokenService) TTL() time.Duration {
	return ts.ttl
}

// Issue signs a token whose subject is the account email.
func (ts *TokenService) Issue(account *domain.Account) (*domain.Token, error) {
	if account == nil || account.Email == "" {
		return nil, errors.New("account email required")
	}

	issuedAt := jwt.NewNumericDate(ts.clock.Now())
	expiresAt := jwt.NewNumericDate(issuedAt.Add(ts.ttl))
	claims := jwt.RegisteredClaims{
		Subject:   account.Email,
		Issuer:    ts.issuer,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.secret)
	if err != nil {
		return nil, err
	}
	return &domain.Token{
		Value:     tokenString,
		Subject:   account.Email,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// Verify checks the signature and expiry of tokenStr. A token is rejected
// once the current time reaches its expiry.
func (ts *TokenService) Verify(tokenStr string) (*domain.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.clock.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if ts.issuer != "" {
		opts = append(opts, jwt.WithIssuer(ts.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return ts.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}

	return &domain.Identity{
		Email:     claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
