package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carsphere/carsphere-api/internal/application"
	"github.com/carsphere/carsphere-api/pkg/response"
)

// serviceError translates application errors to HTTP. notFoundStatus lets
// routes disagree on not-found: 404 for lookups, 400 for mutations.
// Unanticipated errors surface as 400 with the raw message.
func serviceError(c *gin.Context, err error, notFoundStatus int) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, "validation failed", verr.Messages)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrCarNotFound),
		errors.Is(err, application.ErrUserNotFound):
		response.Error(c, notFoundStatus, err.Error(), nil)
	default:
		response.Error(c, http.StatusBadRequest, err.Error(), nil)
	}
}
