package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/leaderboard-backend/internal/middleware"
	"github.com/ArowuTest/leaderboard-backend/internal/models"
	"github.com/ArowuTest/leaderboard-backend/pkg/apperrors"
	"github.com/ArowuTest/leaderboard-backend/pkg/logger"
	"github.com/ArowuTest/leaderboard-backend/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgValidationFailed = "Validation failed"
	msgServerError      = "Server error"
)

// respondError writes the status and body for an error returned by a service.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.New("", msgServerError, err)
	}

	switch appErr.Code {
	case apperrors.CodeNotFound:
		c.JSON(http.StatusNotFound, models.ErrorResponse{Message: appErr.Message})
	case apperrors.CodeValidation:
		field := appErr.Field
		if field == "" {
			field = "payload"
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: msgValidationFailed,
			Errors:  map[string]string{field: appErr.Message},
		})
	default:
		_ = c.Error(err)
		logger.LogError(log, "request failed", err, logrus.Fields{
			"requestId": middleware.RequestID(c),
			"path":      c.FullPath(),
		})
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Message: msgServerError,
			Error:   appErr.Message,
		})
	}
}

// respondBindingError writes a 400 for a request body that failed to bind.
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Message: msgValidationFailed,
		Errors:  validation.ToDetails(err),
	})
}
