package main

import (
	"errors"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/store"

	"github.com/gin-gonic/gin"
)

// HandleLogin exchanges form credentials for a bearer token. Wrong username
// and wrong password are deliberately indistinguishable in the response.
func (h *Handler) HandleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !h.authService.VerifyPassword(password, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect username or password"})
		return
	}

	token, err := h.authService.MintToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
