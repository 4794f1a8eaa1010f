// Package auth issues and verifies the signed tokens agents use to
// claim their profiles.
package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a claim token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// ClaimIssuer issues and verifies agent claim tokens (HS256).
type ClaimIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewClaimIssuer creates an issuer with the given signing secret.
func NewClaimIssuer(secret string) *ClaimIssuer {
	return &ClaimIssuer{
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
	}
}

// NewClaimIssuerFromEnv builds an issuer from JWT_SECRET, with a
// development fallback.
func NewClaimIssuerFromEnv() *ClaimIssuer {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}
	return NewClaimIssuer(secret)
}

// claimClaims binds a token to one agent.
type claimClaims struct {
	AgentID string `json:"agent_id"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed claim token for the given agent.
func (i *ClaimIssuer) IssueToken(agentID string) (string, error) {
	now := time.Now()
	claims := claimClaims{
		AgentID: agentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agentID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign claim token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a claim token and returns the agent ID it was
// issued for. A "Bearer " prefix is tolerated.
func (i *ClaimIssuer) VerifyToken(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &claimClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid claim token: %w", err)
	}

	claims, ok := token.Claims.(*claimClaims)
	if !ok || claims.AgentID == "" {
		return "", fmt.Errorf("claim token has no agent id")
	}
	return claims.AgentID, nil
}
