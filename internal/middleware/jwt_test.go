package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starshade/online-store/internal/utils"
)

const testSecret = "test-secret"

func runJWTAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, any) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var ctxUserID any
	next := func(c echo.Context) error {
		reached = true
		ctxUserID = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	}

	err := JWTAuth(testSecret)(next)(c)
	require.NoError(t, err)
	return rec, reached, ctxUserID
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, reached, _ := runJWTAuth(t, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached, "handler must not run without a token")
}

func TestJWTAuth_NotBearer(t *testing.T) {
	rec, reached, _ := runJWTAuth(t, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	rec, reached, _ := runJWTAuth(t, "Bearer not.a.jwt")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, 60)
	require.NoError(t, err)

	rec, reached, _ := runJWTAuth(t, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuth_Expired(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, -1)
	require.NoError(t, err)

	rec, reached, _ := runJWTAuth(t, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, 60)
	require.NoError(t, err)

	rec, reached, uid := runJWTAuth(t, "Bearer "+tok.Token)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, reached, "handler must run for a valid token")
	assert.Equal(t, uint64(42), uid)
}
