package main

import (
	"errors"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/chat"
	"github.com/taskdeck/taskdeck/internal/llm"
	"github.com/taskdeck/taskdeck/internal/ratelimit"
	"github.com/taskdeck/taskdeck/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler carries the services behind every HTTP endpoint.
type Handler struct {
	store        *store.Store
	authService  *auth.Service
	orchestrator *chat.Orchestrator
	limiter      *ratelimit.Limiter
	stats        *llm.Stats
	modelID      string
}

func NewHandler(
	st *store.Store,
	authService *auth.Service,
	orchestrator *chat.Orchestrator,
	limiter *ratelimit.Limiter,
	stats *llm.Stats,
	modelID string,
) *Handler {
	return &Handler{
		store:        st,
		authService:  authService,
		orchestrator: orchestrator,
		limiter:      limiter,
		stats:        stats,
		modelID:      modelID,
	}
}

// storeError maps store failures onto HTTP responses.
func storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundDetail(c)})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// notFoundDetail names the missing resource based on the route.
func notFoundDetail(c *gin.Context) string {
	if c.Param("collection_id") != "" {
		return "Collection not found"
	}
	if c.Param("task_id") != "" {
		return "Task not found"
	}
	return "Not found"
}

func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": GetBuildInfo().Version})
}

// HandleStats reports the recorded model-call metrics.
func (h *Handler) HandleStats(c *gin.Context) {
	snapshot, err := h.stats.Snapshot(c.Request.Context(), h.modelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func userResponse(user *store.User) api.UserResponse {
	return api.UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func taskResponse(task *store.Task) api.TaskResponse {
	return api.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		Deadline:    task.Deadline,
	}
}

func taskDetailResponse(task *store.Task) api.TaskDetailResponse {
	detail := api.TaskDetailResponse{TaskResponse: taskResponse(task)}
	if task.Collection != nil {
		detail.Collection = &api.CollectionResponse{ID: task.Collection.ID, Name: task.Collection.Name}
	}
	return detail
}

func collectionResponse(collection *store.Collection) api.CollectionResponse {
	return api.CollectionResponse{ID: collection.ID, Name: collection.Name}
}

func collectionDetailResponse(collection *store.Collection) api.CollectionDetailResponse {
	detail := api.CollectionDetailResponse{
		CollectionResponse: collectionResponse(collection),
		Tasks:              []api.TaskResponse{},
	}
	for i := range collection.Tasks {
		detail.Tasks = append(detail.Tasks, taskResponse(&collection.Tasks[i]))
	}
	return detail
}
