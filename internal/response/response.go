// Package response writes the JSON envelope shared by every API handler.
package response

import (
	"net/http"

	app_errors "settings-ui/internal/errors"

	"github.com/gin-gonic/gin"
)

// SuccessResponse defines the standard JSON success response structure.
type SuccessResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse defines the standard JSON error response structure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success sends a standardized success response.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    0,
		Message: "Success",
		Data:    data,
	})
}

// SuccessWithMessage sends a success response with a localized message.
func SuccessWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response using an APIError.
func Error(c *gin.Context, apiErr *app_errors.APIError) {
	c.JSON(apiErr.HTTPStatus, ErrorResponse{
		Code:    apiErr.Code,
		Message: apiErr.Message,
	})
}

// ErrorWithData sends an error response that also carries a payload, such as a partial update report.
func ErrorWithData(c *gin.Context, apiErr *app_errors.APIError, data any) {
	c.JSON(apiErr.HTTPStatus, gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
		"data":    data,
	})
}
