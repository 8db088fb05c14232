package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthTest handles GET /api/:user_id/test, a smoke test for bearer auth.
func (h *Handler) AuthTest(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Authentication successful",
		"user":    me,
	})
}
