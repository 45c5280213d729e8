package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/application"
	"github.com/oksasatya/lincup/internal/domain/catalog"
	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/pkg/helpers"
	"github.com/oksasatya/lincup/pkg/response"
)

// writeError maps service errors onto HTTP statuses. Unknown errors are logged and hidden.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrPasswordMismatch):
		response.Error[any](c, http.StatusBadRequest, "Passwords do not match.", nil)
	case errors.Is(err, application.ErrInvalidPassword):
		response.Error[any](c, http.StatusBadRequest, "Password must be between 1 and 72 bytes.", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "Invalid email or password.", nil)
	case errors.Is(err, application.ErrDuplicateEmail):
		response.Error[any](c, http.StatusConflict, "An account with this email already exists.", nil)
	case errors.Is(err, application.ErrProfileAlreadySet):
		response.Error[any](c, http.StatusConflict, "profile already submitted", nil)
	case errors.Is(err, application.ErrInvalidProfile):
		response.Error[any](c, http.StatusBadRequest, "Please fill out all required fields.", nil)
	case errors.Is(err, application.ErrInvalidCourse):
		response.Error[any](c, http.StatusBadRequest, "course name and code are required", nil)
	case errors.Is(err, entity.ErrInvalidReview):
		response.Error[any](c, http.StatusBadRequest, "invalid review", err.Error())
	case errors.Is(err, catalog.ErrUnknownFilter):
		response.Error[any](c, http.StatusBadRequest, "filter must be one of: all, easy, hard", nil)
	case errors.Is(err, application.ErrCourseNotFound):
		response.Error[any](c, http.StatusNotFound, "course not found", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrExportUnavailable), errors.Is(err, application.ErrSearchUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(response.RequestIDKey),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
