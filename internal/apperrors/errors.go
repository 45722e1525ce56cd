// Package apperrors is the error taxonomy shared by services and handlers.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/pkg/logger"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthenticated
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// Error carries a taxonomy kind and a short user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Invalid(msg string) error { return &Error{Kind: KindInvalid, Message: msg} }

// Internal wraps an unexpected infrastructure error.
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// IsUniqueViolation recognizes a uniqueness-constraint failure from gorm's
// translated error or from a raw Postgres error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// KindOf classifies any error, including raw gorm errors.
func KindOf(err error) Kind {
	var appErr *Error
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &appErr):
		return appErr.Kind
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case IsUniqueViolation(err):
		return KindConflict
	default:
		return KindInternal
	}
}

// Is reports whether err belongs to kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

var defaultStatus = map[Kind]int{
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindForbidden:       http.StatusForbidden,
	KindUnauthenticated: http.StatusUnauthorized,
	KindInvalid:         http.StatusBadRequest,
	KindInternal:        http.StatusInternalServerError,
}

// Override remaps a kind to a different HTTP status for one endpoint.
type Override struct {
	Kind   Kind
	Status int
}

func WithStatus(kind Kind, status int) Override {
	return Override{Kind: kind, Status: status}
}

// ToHTTP converts err into an *echo.HTTPError. Internal errors are logged
// and hidden behind a generic message.
func ToHTTP(err error, overrides ...Override) error {
	if err == nil {
		return nil
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	kind := KindOf(err)
	status := defaultStatus[kind]
	for _, o := range overrides {
		if o.Kind == kind {
			status = o.Status
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(http.StatusRequestTimeout, "request was canceled")
	}

	if kind == KindInternal {
		logger.Log.WithError(err).Error("internal error")
		return echo.NewHTTPError(status, "internal server error")
	}

	msg := err.Error()
	var appErr *Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	} else if kind == KindNotFound {
		msg = "record not found"
	} else if kind == KindConflict {
		msg = "record already exists"
	}
	logger.Log.WithFields(logrus.Fields{"kind": kind.String(), "status": status}).Debug(msg)
	return echo.NewHTTPError(status, msg)
}
