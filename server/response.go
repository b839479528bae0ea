package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/storekit/errors"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as an ErrorResponse with the AppError's
// status. Other errors become a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr := errors.Wrap(err)
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondNoContent sends a 204.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
