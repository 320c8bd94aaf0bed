package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midastechnical/storefront-sync/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "midastechnical",
		ExpirationMinutes: 60,
	}
}

func TestIssueAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()

	raw, err := IssueAccessToken(cfg, "admin@midastechnical.com", "admin")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@midastechnical.com", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "midastechnical", claims.Issuer)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	raw, err := IssueAccessToken(testJWTConfig(), "admin@midastechnical.com", "admin")
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different"
	_, err = ParseAccessToken(other, raw)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	raw, err := IssueAccessToken(cfg, "admin@midastechnical.com", "admin")
	require.NoError(t, err)

	_, err = ParseAccessToken(testJWTConfig(), raw)
	require.Error(t, err)
}

func TestIssueAccessTokenRequiresSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	_, err := IssueAccessToken(cfg, "admin@midastechnical.com", "admin")
	require.Error(t, err)
}
