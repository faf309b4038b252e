package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/telemedly/telemed-api/pkg/errors"
)

// Response is the envelope every endpoint returns. On failure Data is the
// literal false, mirroring the client contract.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

func NewSuccessResponse(status int, data interface{}, message string) Response {
	return Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	}
}

func NewErrorResponse(status int, message string) Response {
	return Response{
		StatusCode: status,
		Data:       false,
		Message:    message,
		Success:    false,
	}
}

// OK writes a success envelope; the HTTP status mirrors StatusCode.
func OK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, NewSuccessResponse(status, data, message))
}

// Fail writes an error envelope with an explicit status and message.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, NewErrorResponse(status, message))
}

// Error maps a service error onto the envelope. Unclassified errors become
// opaque 500s.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		Fail(c, appErr.StatusCode(), appErr.Message)
		return
	}
	Fail(c, http.StatusInternalServerError, "internal server error")
}
