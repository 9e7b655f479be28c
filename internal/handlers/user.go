package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/georgs-k/employee-service/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin manager employee"`
}

type userRefRequest struct {
	ID    string `json:"id" binding:"required,uuid"`
	Email string `json:"email" binding:"required,email"`
}

type changeRoleRequest struct {
	ID    string `json:"id" binding:"required,uuid"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=admin manager employee"`
}

type changePasswordRequest struct {
	Email                string `json:"email" binding:"required,email"`
	OldPassword          string `json:"oldPassword" binding:"required"`
	NewPassword          string `json:"newPassword" binding:"required,min=8"`
	NewPasswordConfirmed string `json:"newPasswordConfirmed" binding:"required,min=8"`
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{Users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Users.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	user, err := h.Users.Create(c.Request.Context(), req.Email, req.Password, req.Role)
	if errors.Is(err, service.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user creation failed"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	err := h.Users.ChangeRole(c.Request.Context(), uuid.MustParse(req.ID), req.Email, req.Role)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role change failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role changed"})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	err := h.Users.ChangePassword(c.Request.Context(), req.Email, req.OldPassword, req.NewPassword, req.NewPasswordConfirmed)
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "password confirmation does not match"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password change failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "password changed"})
	}
}

func (h *UserHandler) Delete(c *gin.Context) {
	var req userRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	err := h.Users.Delete(c.Request.Context(), uuid.MustParse(req.ID), req.Email)
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
