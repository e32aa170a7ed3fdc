package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoestop/backend/pkg/auth"
	"github.com/shoestop/backend/pkg/middleware"
)

func protected(t *testing.T) http.Handler {
	t.Helper()
	return middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromCtx(r.Context())
		require.True(t, ok)
		w.Write([]byte(id.UserID)) //nolint:errcheck
	}))
}

func TestAuthAcceptsBearerHeader(t *testing.T) {
	token, err := auth.GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "64f1c2d3e4a5b6c7d8e9f0a1", rec.Body.String())
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec = httptest.NewRecorder()
	protected(t).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthIgnoresQueryTokenByDefault(t *testing.T) {
	token, err := auth.GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "user")
	require.NoError(t, err)

	// Only routes wrapped in AllowQueryToken may pass the token in the URL.
	req := httptest.NewRequest(http.MethodGet, "/api/cart?token="+token, nil)
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAllowQueryTokenEnablesQueryAuth(t *testing.T) {
	token, err := auth.GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "admin")
	require.NoError(t, err)

	h := middleware.AllowQueryToken(protected(t))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/stream?token="+token, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "64f1c2d3e4a5b6c7d8e9f0a1", rec.Body.String())
}

func TestAllowQueryTokenPrefersHeader(t *testing.T) {
	header, err := auth.GenerateToken("64f1c2d3e4a5b6c7d8e9f0a1", "admin")
	require.NoError(t, err)

	h := middleware.AllowQueryToken(protected(t))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/stream?token=garbage", nil)
	req.Header.Set("Authorization", "Bearer "+header)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsVerificationLinkToken(t *testing.T) {
	token, err := auth.GeneratePurposeToken("64f1c2d3e4a5b6c7d8e9f0a1", auth.PurposeVerifyEmail, 48*time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
