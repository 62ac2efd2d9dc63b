package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authsvc/errors"
)

// RespondWithError derives the status and body from err. Errors that are
// not *errors.AppError become a generic 500.
func RespondWithError(c *gin.Context, err error) {
	RespondWithStatus(c, errors.Wrap(err).HTTPStatus, err)
}

// RespondWithStatus renders err as a failure envelope with an explicit
// status code.
func RespondWithStatus(c *gin.Context, status int, err error) {
	c.JSON(status, errors.Wrap(err).ToResponse())
}

// RespondOK sends a 200 success envelope.
func RespondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, errors.Envelope{Success: true, Message: message, Data: data})
}

// RespondCreated sends a 201 success envelope.
func RespondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, errors.Envelope{Success: true, Message: message, Data: data})
}
