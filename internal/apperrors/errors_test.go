package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{"not found", apperrors.NotFound("post not found"), apperrors.KindNotFound},
		{"wrapped conflict", fmt.Errorf("apply: %w", apperrors.Conflict("dup")), apperrors.KindConflict},
		{"gorm not found", gorm.ErrRecordNotFound, apperrors.KindNotFound},
		{"gorm duplicate", gorm.ErrDuplicatedKey, apperrors.KindConflict},
		{"postgres unique", &pgconn.PgError{Code: "23505"}, apperrors.KindConflict},
		{"postgres other", &pgconn.PgError{Code: "23503"}, apperrors.KindInternal},
		{"plain", errors.New("boom"), apperrors.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.KindOf(tt.err))
		})
	}
	assert.False(t, apperrors.Is(nil, apperrors.KindInternal))
}

func TestToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", apperrors.NotFound("post not found"), http.StatusNotFound, "post not found"},
		{"conflict", apperrors.Conflict("already applied"), http.StatusConflict, "already applied"},
		{"forbidden", apperrors.Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{"unauthenticated", apperrors.Unauthenticated("user not found"), http.StatusUnauthorized, "user not found"},
		{"invalid", apperrors.Invalid("bad"), http.StatusBadRequest, "bad"},
		{"internal hides cause", apperrors.Internal("failed to save", errors.New("pq: secret")), http.StatusInternalServerError, "internal server error"},
		{"raw not found", gorm.ErrRecordNotFound, http.StatusNotFound, "record not found"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "request timed out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var he *echo.HTTPError
			require.ErrorAs(t, apperrors.ToHTTP(tt.err), &he)
			assert.Equal(t, tt.status, he.Code)
			assert.Equal(t, tt.msg, he.Message)
		})
	}
	assert.NoError(t, apperrors.ToHTTP(nil))
}

func TestToHTTP_Overrides(t *testing.T) {
	overrides := []apperrors.Override{
		apperrors.WithStatus(apperrors.KindConflict, http.StatusBadRequest),
		apperrors.WithStatus(apperrors.KindForbidden, http.StatusUnauthorized),
	}

	var he *echo.HTTPError
	require.ErrorAs(t, apperrors.ToHTTP(apperrors.Conflict("already pending"), overrides...), &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)

	require.ErrorAs(t, apperrors.ToHTTP(apperrors.Forbidden("not the receiver"), overrides...), &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	require.ErrorAs(t, apperrors.ToHTTP(apperrors.NotFound("connection not found"), overrides...), &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestToHTTP_PassesEchoErrorsThrough(t *testing.T) {
	in := echo.NewHTTPError(http.StatusTeapot, "short and stout")
	assert.Same(t, in, apperrors.ToHTTP(in))
}
