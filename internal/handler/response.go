package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error records a service error on the context and writes it to the client,
// mapping application error codes to HTTP statuses and falling back to 500.
// Recording via c.Error gives the error middleware the full error for
// request-scoped logging.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	status := http.StatusInternalServerError
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
	}
	c.AbortWithStatusJSON(status, NewErrorResponse(err.Error()))
}

// BindError handles a request-binding failure. Field-level validation
// failures are recorded and left for the validation middleware to render
// with per-field messages; anything else (malformed JSON and the like) is
// answered here with a 400.
func BindError(c *gin.Context, err error) {
	_ = c.Error(err)

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, NewErrorResponse(err.Error()))
}
