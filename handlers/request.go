package handlers

import (
	"PatientCare/apperrors"
	"PatientCare/middlewares"
	"PatientCare/models"
	"PatientCare/utils"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter. Anything else cannot name
// a record, so it is reported as not found.
func parseID(c *gin.Context, param, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound(resource)
	}
	return uint(id), nil
}

// bindJSON decodes the body into dst and turns decoding failures into
// field-level validation errors.
func bindJSON(c *gin.Context, dst interface{}) error {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return nil
	}

	var decodeErr *models.DecodeError
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &decodeErr):
		return apperrors.Field(decodeErr.Field, decodeErr.Message)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperrors.Field(typeErr.Field, fmt.Sprintf("Incorrect type. Expected %s, received %s.", typeErr.Type, typeErr.Value))
	case errors.Is(err, io.EOF):
		return apperrors.Field(apperrors.NonFieldErrors, "No data provided.")
	case errors.As(err, &syntaxErr):
		return apperrors.Field(apperrors.NonFieldErrors, fmt.Sprintf("JSON parse error - %s", syntaxErr.Error()))
	default:
		return apperrors.Field(apperrors.NonFieldErrors, fmt.Sprintf("Invalid request body: %s", err.Error()))
	}
}

func accountID(c *gin.Context) uint {
	return middlewares.AccountIDFromContext(c.Request.Context())
}

func pageRequest(c *gin.Context) utils.PageRequest {
	return utils.ParsePageRequest(c.Query("page"), c.Query("page_size"))
}

func invalidChoice(field, value string) error {
	return apperrors.Field(field, fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", value))
}
