package middlewares

import (
	"PatientCare/apperrors"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

func summary(kind apperrors.Kind) string {
	switch kind {
	case apperrors.KindValidation:
		return "Validation failed"
	case apperrors.KindConstraint:
		return "Constraint violation"
	case apperrors.KindDuplicateMapping:
		return "Duplicate mapping"
	case apperrors.KindAuthentication:
		return "Authentication failed"
	case apperrors.KindForbidden:
		return "Permission denied"
	case apperrors.KindNotFound:
		return "Resource not found"
	default:
		return "Internal server error"
	}
}

// RespondError maps err to its status and writes the error body. Errors that
// are not *apperrors.Error are logged and reported as a generic 500.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind == apperrors.KindInternal {
		log.Error().Err(err).
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   summary(apperrors.KindInternal),
			Code:    apperrors.CodeInternal,
			Message: "An unexpected error occurred",
		})
		return
	}

	c.AbortWithStatusJSON(appErr.Kind.Status(), ErrorResponse{
		Error:   summary(appErr.Kind),
		Code:    appErr.Kind.Code(),
		Message: appErr.Message,
		Details: appErr.Fields,
	})
}
