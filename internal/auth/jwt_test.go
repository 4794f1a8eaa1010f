package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := NewClaimIssuer("test-secret")

	token, err := issuer.IssueToken("agent_alpha")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	agentID, err := issuer.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent_alpha", agentID)
}

func TestVerifyTokenBearerPrefix(t *testing.T) {
	issuer := NewClaimIssuer("test-secret")

	token, err := issuer.IssueToken("agent_alpha")
	require.NoError(t, err)

	agentID, err := issuer.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "agent_alpha", agentID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := NewClaimIssuer("secret-a").IssueToken("agent_alpha")
	require.NoError(t, err)

	_, err = NewClaimIssuer("secret-b").VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	issuer := NewClaimIssuer("test-secret")

	_, err := issuer.VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestVerifyTokenExpired(t *testing.T) {
	issuer := NewClaimIssuer("test-secret")
	issuer.ttl = -time.Hour

	token, err := issuer.IssueToken("agent_alpha")
	require.NoError(t, err)

	_, err = issuer.VerifyToken(token)
	assert.Error(t, err)
}
