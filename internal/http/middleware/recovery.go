package middleware

import (
	"fmt"
	"net/http"

	"todo_api/internal/http/respond"
	"todo_api/internal/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into the generic 500 envelope.
func Recovery(dev bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.FromContext(c.Request.Context()).Error("panic recovered", "panic", recovered)
		respond.Abort(c, http.StatusInternalServerError, respond.CodeInternal, "An unexpected error occurred", map[string]any{
			"exception": fmt.Sprint(recovered),
			"type":      "panic",
		}, dev)
	})
}
