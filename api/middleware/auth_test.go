package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/midastechnical/storefront-sync/pkg/auth"
	"github.com/midastechnical/storefront-sync/pkg/config"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "midastechnical",
		ExpirationMinutes: 60,
	}
}

func testAuthHandler(t *testing.T, cfg config.JWTConfig) (http.Handler, *string, *string) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	var subject, role string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = Subject(r.Context())
		role = Role(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return Auth(cfg, logg)(inner), &subject, &role
}

func TestAuthSeedsContextFromBearerToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgauth.IssueAccessToken(cfg, "admin@midastechnical.com", "admin")
	require.NoError(t, err)

	handler, subject, role := testAuthHandler(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@midastechnical.com", *subject)
	assert.Equal(t, "admin", *role)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	handler, _, _ := testAuthHandler(t, testJWTConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsForgedToken(t *testing.T) {
	forged := testJWTConfig()
	forged.Secret = "other-secret"
	token, err := pkgauth.IssueAccessToken(forged, "intruder@example.com", "admin")
	require.NoError(t, err)

	handler, _, _ := testAuthHandler(t, testJWTConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleBlocksOtherRoles(t *testing.T) {
	cfg := testJWTConfig()
	token, err := pkgauth.IssueAccessToken(cfg, "viewer@midastechnical.com", "viewer")
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(cfg, logg)(RequireRole("admin", logg)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
