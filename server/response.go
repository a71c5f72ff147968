package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/longreader/errors"
)

// statusClientClosedRequest is logged when the caller went away mid-run.
const statusClientClosedRequest = 499

// RespondWithError derives the status and body from the AppError in err's
// chain. Deadline errors become 504 and anything else a generic 500.
func RespondWithError(c *gin.Context, err error) {
	if stderrors.Is(err, context.Canceled) && c.Request.Context().Err() != nil {
		c.AbortWithStatus(statusClientClosedRequest)
		return
	}
	appErr := errors.FromError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, appErr.ToResponse())
}
