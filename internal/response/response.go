package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper. Code always matches the
// HTTP status of the response; Data carries the payload on success and
// a field -> messages map on validation failure.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
}

// Fixed messages for system failures. Underlying detail is never
// surfaced to clients on these paths.
const (
	MsgUnauthorized = "Authentication credentials were not provided or are invalid"
	MsgForbidden    = "You do not have permission to perform this action"
	MsgUnexpected   = "An unexpected error occurred"
	MsgIntegrity    = "Integrity error occurred."
)

// FieldErrors maps a field name to its ordered list of error messages.
type FieldErrors map[string][]string

func respond(c *gin.Context, status int, message string, data interface{}) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		Code:    status,
		Message: message,
		Data:    data,
		Success: status < 400,
	})
}

func OK(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, message, data)
}

// BadRequest renders a validation failure with per-field messages.
func BadRequest(c *gin.Context, message string, fields FieldErrors) {
	var data interface{}
	if fields != nil {
		data = fields
	}
	respond(c, http.StatusBadRequest, message, data)
}

func Unauthorized(c *gin.Context) {
	respond(c, http.StatusUnauthorized, MsgUnauthorized, nil)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = MsgForbidden
	}
	respond(c, http.StatusForbidden, message, nil)
}

func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, message, nil)
}

// Internal renders the fixed 500 envelope. The originating error is
// logged at the call site, never leaked here.
func Internal(c *gin.Context) {
	respond(c, http.StatusInternalServerError, MsgUnexpected, nil)
}
