package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/peer-support/internal/domain"
)

// TokenIssuer is stamped into and required on every counselor token.
const TokenIssuer = "peer-support"

// ErrInvalidClaims is returned for signed tokens whose payload is unusable.
var ErrInvalidClaims = errors.New("invalid token claims")

// Claims is the payload of a counselor session token.
type Claims struct {
	CounselorID string               `json:"cid"`
	Role        domain.CounselorRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 counselor tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager; a non-positive ttl falls back to one hour.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		now:    time.Now,
	}
}

// TTL returns the lifetime of newly issued tokens.
func (tm *TokenManager) TTL() time.Duration { return tm.ttl }

// GenerateToken signs a token for the counselor and returns its expiry.
func (tm *TokenManager) GenerateToken(counselorID string, role domain.CounselorRole) (string, time.Time, error) {
	if counselorID == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty counselor id", ErrInvalidClaims)
	}
	issuedAt := tm.now().UTC()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := Claims{
		CounselorID: counselorID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			Subject:   counselorID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, issuer and time claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return tm.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.CounselorID == "" || claims.Subject != claims.CounselorID {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}
