package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the error contract body {"detail","code"}. An
// *AppError overrides the status with its own; anything else gets a
// kind derived from the status the caller picked. Stack traces and
// internal identifiers never reach the client.
func RespondError(c *gin.Context, code int, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"detail": appErr.Detail,
			"code":   appErr.Code,
		})
		return
	}

	c.JSON(code, gin.H{
		"detail": err.Error(),
		"code":   codeForStatus(code),
	})
}
