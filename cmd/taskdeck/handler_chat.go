package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/chat"
	"github.com/taskdeck/taskdeck/internal/llm"
	"github.com/taskdeck/taskdeck/internal/tools"

	"github.com/gin-gonic/gin"
)

// HandleChat runs one assistant conversation for the caller's message. The
// assistant acts against this API with the caller's own bearer token, so it
// can never touch another user's data.
func (h *Handler) HandleChat(c *gin.Context) {
	startTime := time.Now()

	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := auth.CurrentUser(c)
	if !h.limiter.Allow(c.Request.Context(), user.ID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many chat requests, try again in a minute"})
		return
	}

	log.Printf("--- New chat (User: %d, Message: '%.30s...') ---", user.ID, req.Message)

	reply, err := h.orchestrator.Run(
		c.Request.Context(),
		chat.SetupPrompt(time.Now()),
		req.Message,
		auth.BearerToken(c),
	)
	if err != nil {
		log.Printf("Chat run failed for user %d: %v", user.ID, err)
		if errors.Is(err, llm.ErrModelUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error while calling LLM"})
			return
		}
		if errors.Is(err, tools.ErrUnknownTool) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Assistant requested an unknown tool"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, api.ChatResponse{
		Reply:     reply,
		LatencyMS: time.Since(startTime).Milliseconds(),
	})
}
