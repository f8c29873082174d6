package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bug-tracker-api/internal/application"
	"github.com/oksasatya/bug-tracker-api/pkg/response"
)

// writeError maps application errors onto the HTTP taxonomy. Anything not in
// the taxonomy is a store failure and surfaces generically: the core does not
// retry, the caller owns retry policy.
func writeError(c *gin.Context, err error) {
	if ve, ok := application.IsValidation(err); ok {
		response.Error[any](c, http.StatusBadRequest, "validation failed", ve.Fields)
		return
	}
	var status int
	var msg string
	switch {
	case errors.Is(err, application.ErrDuplicateEmail):
		status, msg = http.StatusBadRequest, "email already registered"
	case errors.Is(err, application.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, application.ErrForbidden):
		status, msg = http.StatusForbidden, "not authorized for this bug"
	case errors.Is(err, application.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, application.ErrBugNotFound):
		status, msg = http.StatusNotFound, "bug not found"
	default:
		status, msg = http.StatusServiceUnavailable, "service unavailable"
	}
	response.Error[any](c, status, msg, nil)
}
