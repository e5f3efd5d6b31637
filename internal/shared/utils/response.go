package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gluco/internal/shared/errors"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorInfo represents error information in API response
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse sends a successful response with custom status code
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// OKResponse sends a 200 response with data
func OKResponse(c *gin.Context, data interface{}) {
	SuccessResponse(c, http.StatusOK, "", data)
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{
		Success: false,
		Error:   &ErrorInfo{Type: "error", Message: message},
	})
}

// HandleAppError maps an application error onto the response envelope.
// Invariant violations are reported as plain internal errors to the caller;
// the handler is expected to have logged the details already.
func HandleAppError(c *gin.Context, err error) {
	if appErr := errors.GetAppError(err); appErr != nil {
		status := appErr.Code
		info := &ErrorInfo{
			Type:    string(appErr.Type),
			Message: appErr.Message,
			Details: appErr.Details,
		}
		if appErr.Type == errors.ErrorTypeInvariant {
			info = &ErrorInfo{Type: string(errors.ErrorTypeInternal), Message: "internal error"}
		}
		c.JSON(status, APIResponse{Success: false, Error: info})
		return
	}
	c.JSON(http.StatusInternalServerError, APIResponse{
		Success: false,
		Error:   &ErrorInfo{Type: string(errors.ErrorTypeInternal), Message: "internal error"},
	})
}
