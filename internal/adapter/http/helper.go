package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"loanflow/internal/domain/loan"
)

// legacy spellings of the loan identifier accepted in the query string
var refAliases = []string{"_id", "loan_id", "loanId"}

type refParam struct {
	Ref string `validate:"required,loanref"`
}

// loanRef resolves the loan identifier from the path, falling back to the
// legacy query aliases. ok is false once an error response has been written.
func loanRef(c echo.Context) (ref string, ok bool, err error) {
	ref = strings.TrimSpace(c.Param("id"))
	for _, k := range refAliases {
		if ref != "" {
			break
		}
		ref = strings.TrimSpace(c.QueryParam(k))
	}
	if ref == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan id"})
	}
	ref = strings.ToLower(ref)
	if c.Echo().Validator != nil {
		if verr := c.Validate(&refParam{Ref: ref}); verr != nil {
			return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id", Details: ToFieldErrors(verr)})
		}
	}
	return ref, true, nil
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, loan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, loan.ErrInvalidTransition), errors.Is(err, loan.ErrNotPayable), errors.Is(err, loan.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, loan.ErrInvalidAmount), errors.Is(err, loan.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, log *zap.Logger, err error) error {
	code := statusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err))
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}

// bindValid binds the request into v and validates it, writing the 400/422
// response itself. ok is false once a response has been written.
func bindValid(c echo.Context, v any) (ok bool, err error) {
	if err := c.Bind(v); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(v); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
