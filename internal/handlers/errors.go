package handlers

import (
	"errors"
	"net/http"

	"github.com/clinicconnect/clinicconnect-api/internal/wizard"
	pkgerrors "github.com/clinicconnect/clinicconnect-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// respondServiceError maps a domain error to its status. Wizard rejections
// carry their code; internal failures only expose fallback.
func respondServiceError(c *gin.Context, err error, fallback string) {
	status := pkgerrors.HTTPStatus(err)
	attachError(c, err)

	var rejection *wizard.Rejection
	if errors.As(err, &rejection) {
		c.JSON(status, gin.H{"error": rejection.Message, "code": rejection.Code})
		return
	}
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the request body into req and answers 400 on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return false
	}
	return true
}
