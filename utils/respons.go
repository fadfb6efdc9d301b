package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every API handler answers with.
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

func RespondError(c *gin.Context, code int, err error) {
	RespondJSON(c, code, err.Error(), nil)
}

// AbortError writes the error envelope and stops the middleware chain.
func AbortError(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, JSONResponse{Message: err.Error()})
}
