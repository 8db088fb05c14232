package handlers

import (
	"todo_api/internal/domain"
	"todo_api/internal/http/middleware"
	"todo_api/internal/http/respond"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Auth  *service.AuthService
	Tasks *service.TaskService
	// DevMode adds error details to responses.
	DevMode bool
}

func NewHandler(auth *service.AuthService, tasks *service.TaskService, devMode bool) *Handler {
	return &Handler{
		Auth:    auth,
		Tasks:   tasks,
		DevMode: devMode,
	}
}

// bind decodes the JSON body into req, writing a 422 envelope on failure.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respond.Error(c, respond.Binding(err), h.DevMode)
		return false
	}
	return true
}

func (h *Handler) fail(c *gin.Context, err error) {
	respond.Error(c, err, h.DevMode)
}

// owner is the authenticated caller. Routes using it are always mounted
// behind middleware.RequireUser.
func (h *Handler) owner(c *gin.Context) (domain.Identity, bool) {
	id, ok := middleware.CurrentUser(c)
	if !ok {
		respond.Error(c, service.ErrMissingToken, h.DevMode)
		return domain.Identity{}, false
	}
	return id, true
}
