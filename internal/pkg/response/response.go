package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groundhub/service-booking/internal/pkg/apperror"
)

// envelope is the uniform JSON body for all responses.
type envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error *errBody    `json:"error,omitempty"`
	Meta  *meta       `json:"meta,omitempty"`
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// Paginated writes a 200 response with items and pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Data: items,
		Meta: &meta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 with an INVALID_ARGUMENT error body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Error: &errBody{Code: string(apperror.CodeInvalidArgument), Message: message},
	})
}

// Error maps a typed application error to its HTTP status. Untyped errors
// become 500 without leaking internals.
func Error(c *gin.Context, err error) {
	code := apperror.CodeOf(err)
	status := statusFor(code)

	message := err.Error()
	if code == apperror.CodeInternal {
		message = "internal server error"
	}

	c.JSON(status, envelope{
		Error: &errBody{Code: string(code), Message: message},
	})
}

func statusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeInvalidInterval, apperror.CodeInvalidArgument:
		return http.StatusBadRequest
	case apperror.CodeUnauthorized:
		return http.StatusForbidden
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeSlotUnavailable, apperror.CodeConflict, apperror.CodeInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
