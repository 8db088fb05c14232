package handlers

import (
	"net/http"

	"todo_api/internal/domain"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description"`
}

// UpdateTaskRequest fields left out (or null) keep their current value.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type CompleteTaskRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Count int            `json:"count"`
}

// The :user_id path segment is only checked by the guard; ownership always
// comes from the verified identity.

func (h *Handler) ListTasks(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	tasks, err := h.Tasks.List(c.Request.Context(), me.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks, Count: len(tasks)})
}

func (h *Handler) CreateTask(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !h.bind(c, &req) {
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), me.ID, *req.Title, req.Description)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	task, err := h.Tasks.Get(c.Request.Context(), me.ID, c.Param("task_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !h.bind(c, &req) {
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), me.ID, c.Param("task_id"), domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), me.ID, c.Param("task_id")); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	me, ok := h.owner(c)
	if !ok {
		return
	}

	var req CompleteTaskRequest
	if !h.bind(c, &req) {
		return
	}

	task, err := h.Tasks.SetCompleted(c.Request.Context(), me.ID, c.Param("task_id"), *req.Completed)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}
