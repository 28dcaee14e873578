package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("test-secret")

func signedToken(t *testing.T, key []byte, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	require.NoError(t, err)
	return s
}

func newContext(token string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestJWT_ValidTokenSetsActor(t *testing.T) {
	claims := &Claims{
		UserID:   42,
		Username: "alice",
		IsAdmin:  true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	c, _ := newContext(signedToken(t, testKey, claims))

	called := false
	next := func(c echo.Context) error {
		called = true
		return nil
	}
	require.NoError(t, JWT(testKey)(next)(c))

	assert.True(t, called)
	assert.Equal(t, 42, c.Get("user_id"))
	assert.Equal(t, "alice", c.Get("username"))
	assert.Equal(t, true, c.Get("is_admin"))
}

func TestJWT_MissingHeader(t *testing.T) {
	c, _ := newContext("")

	err := JWT(testKey)(func(echo.Context) error { return nil })(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestJWT_WrongKeyRejected(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	c, _ := newContext(signedToken(t, []byte("other-key"), claims))

	err := JWT(testKey)(func(echo.Context) error { return nil })(c)
	require.Error(t, err)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	c, _ := newContext(signedToken(t, testKey, claims))

	err := JWT(testKey)(func(echo.Context) error { return nil })(c)
	require.Error(t, err)
}

func TestAdminOnly(t *testing.T) {
	c, _ := newContext("")
	c.Set("is_admin", true)
	require.NoError(t, AdminOnly()(func(echo.Context) error { return nil })(c))

	c, _ = newContext("")
	c.Set("is_admin", false)
	err := AdminOnly()(func(echo.Context) error { return nil })(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, err.(*echo.HTTPError).Code)

	// No JWT middleware ran at all – still forbidden.
	c, _ = newContext("")
	err = AdminOnly()(func(echo.Context) error { return nil })(c)
	require.Error(t, err)
}
