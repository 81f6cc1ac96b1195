package main

import (
	"net/http"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/auth"

	"github.com/gin-gonic/gin"
)

// HandleCreateUser registers a new account. The plain password is checked
// against the policy and stored only as a bcrypt hash.
func (h *Handler) HandleCreateUser(c *gin.Context) {
	var req api.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), req.Username, req.Email, hash)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

// HandleMe returns the authenticated user's own account.
func (h *Handler) HandleMe(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, userResponse(user))
}

// HandleUpdatePassword changes the caller's password after verifying the
// old one.
func (h *Handler) HandleUpdatePassword(c *gin.Context) {
	var req api.PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := auth.CurrentUser(c)
	if !h.authService.VerifyPassword(req.OldPassword, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password doesn't match"})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.UpdateUserPassword(c.Request.Context(), user.ID, hash); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}
