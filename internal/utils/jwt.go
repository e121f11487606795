package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens issued by
// [GenerateJWTToken]. It is carried in the "typ" claim.
type TokenKind string

const (
	AccessTokenKind  TokenKind = "access"
	RefreshTokenKind TokenKind = "refresh"
)

// ErrWrongTokenKind is returned by [ValidateJWTToken] when the token is valid
// but was issued for a different purpose.
var ErrWrongTokenKind = errors.New("wrong token kind")

// PortalClaims are the claims carried by portal tokens.
type PortalClaims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"typ"`
}

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token with the given parameters.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the username
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - ID        (jti): a unique token identifier
//   - typ            : access or refresh
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("portal", "alice", utils.AccessTokenKind, time.Minute, "secret")
func GenerateJWTToken(issuer, username string, kind TokenKind, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || username == "" || kind == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &PortalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        NewUUIDGenerator().Generate(),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWTToken validates the given JWT token string and returns its
// subject (username).
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Kind (typ) claim check against want
//   - Subject (sub) claim presence
//
// Expired tokens yield an error matching [jwt.ErrTokenExpired].
func ValidateJWTToken(tokenString, tokenSignKey, tokenIssuer string, want TokenKind) (string, error) {
	claims := &PortalClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Kind != want {
		return "", fmt.Errorf("%w: got %q, want %q", ErrWrongTokenKind, claims.Kind, want)
	}
	if claims.Subject == "" {
		return "", errors.New("empty subject error")
	}

	return claims.Subject, nil
}

// TokenExpiry reads the "exp" claim of tokenString without verifying the
// signature. The client cannot verify portal tokens; the value is only used
// for display and logging. ok is false for opaque or malformed tokens and for
// tokens without an expiry.
func TokenExpiry(tokenString string) (expiresAt time.Time, ok bool) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
