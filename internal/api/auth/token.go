package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-forum-api/config"
	"github.com/FACorreiaa/go-forum-api/internal/api"
	"github.com/FACorreiaa/go-forum-api/internal/types"
)

// TokenService issues and validates stateless HS256 bearer tokens.
// Validity is determined entirely by signature plus registered claims;
// there is no session store or revocation list, which trades revocability
// for horizontal scalability over a short token lifetime.
type TokenService struct {
	secretKey []byte
	issuer    string
	audience  string
	ttl       time.Duration
}

const defaultAccessTokenTTL = 60 * time.Minute

func NewTokenService(cfg config.JWTConfig) *TokenService {
	if cfg.SecretKey == "" {
		panic("JWT Secret Key cannot be empty")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}
	return &TokenService{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		ttl:       ttl,
	}
}

// Issue signs a token carrying the user's identity claims, valid from now
// until now plus the configured lifetime.
func (s *TokenService) Issue(userID, username, email string) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
// Signature mismatch, issuer mismatch, audience mismatch, expiry,
// not-yet-valid and malformed encoding are each checked; every rejection
// collapses into ErrUnauthenticated so callers cannot tell which check
// failed.
func (s *TokenService) Validate(tokenString string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		// Parsing already enforces signature, exp and nbf.
		return nil, fmt.Errorf("token rejected: %v: %w", err, api.ErrUnauthenticated)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token rejected: %w", api.ErrUnauthenticated)
	}

	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("token rejected: expired: %w", api.ErrUnauthenticated)
	}
	if claims.Issuer != s.issuer {
		return nil, fmt.Errorf("token rejected: issuer mismatch: %w", api.ErrUnauthenticated)
	}
	if !api.VerifyAudience(claims.Audience, s.audience) {
		return nil, fmt.Errorf("token rejected: audience mismatch: %w", api.ErrUnauthenticated)
	}

	return claims, nil
}
