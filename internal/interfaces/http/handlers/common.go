// Package handlers contains the gin HTTP handlers for the FleetSurvey API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, common.NewSuccessResponse(data))
}

// respondError maps an error to its HTTP status and writes the error
// envelope.  Internal errors are masked; the cause stays in the logs.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		appErr = e
	} else {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "internal error")
	}

	status := appErr.Code.HTTPStatus()
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, common.NewErrorResponse(string(appErr.Code), message))
}

// pathID extracts and validates a UUID path parameter.
func pathID(c *gin.Context, name string) (common.ID, bool) {
	id := common.ID(c.Param(name))
	if err := id.Validate(); err != nil {
		respondError(c, errors.Validation("invalid %s: %v", name, err))
		return "", false
	}
	return id, true
}
