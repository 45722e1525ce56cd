package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/career-hub/backend/internal/middleware"
	"github.com/anonto42/career-hub/backend/internal/models"
)

const secret = "test-secret"

func sign(t *testing.T, userID uint, key string, ttl time.Duration) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func run(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, uint) {
	t.Helper()
	e := echo.New()
	var seen uint
	h := middleware.JWTAuthMiddleware(secret)(func(c echo.Context) error {
		seen = c.Get(middleware.ContextKeyUser).(*models.JwtCustomClaims).UserID
		return c.NoContent(http.StatusNoContent)
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen
}

func TestJWTAuth_Header(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, 42, secret, time.Hour))

	rec, uid := run(t, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(42), uid)
}

func TestJWTAuth_QueryParameter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?access_token="+sign(t, 7, secret, time.Hour), nil)

	rec, uid := run(t, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(7), uid)
}

func TestJWTAuth_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing":       "",
		"bad format":    "Token abc",
		"wrong secret":  "Bearer " + sign(t, 1, "other", time.Hour),
		"expired":       "Bearer " + sign(t, 1, secret, -time.Hour),
		"no user claim": "Bearer " + sign(t, 0, secret, time.Hour),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec, _ := run(t, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
