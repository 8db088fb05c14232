package handlers

import (
	"net/http"

	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password *string `json:"password" binding:"required"`
	Name     *string `json:"name" binding:"required"`
}

type SigninRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password *string `json:"password" binding:"required"`
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.Auth.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: *req.Password,
		Name:     *req.Name,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Signin handles POST /api/auth/signin.
func (h *Handler) Signin(c *gin.Context) {
	var req SigninRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.Auth.Signin(c.Request.Context(), req.Email, *req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
