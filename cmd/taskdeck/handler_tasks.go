package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/store"

	"github.com/gin-gonic/gin"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) HandleCreateTask(c *gin.Context) {
	var req api.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := auth.CurrentUser(c)
	task, err := h.store.CreateTask(c.Request.Context(), user.ID, req.Title, req.Description, deadlineTime(req.Deadline), req.CollectionID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskDetailResponse(task))
}

func (h *Handler) HandleGetTask(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	user := auth.CurrentUser(c)
	task, err := h.store.GetTaskByID(c.Request.Context(), user.ID, taskID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskDetailResponse(task))
}

func (h *Handler) HandleListTasks(c *gin.Context) {
	filter := store.TaskFilter{
		Offset:    queryInt(c, "offset", 0),
		Limit:     queryInt(c, "limit", 100),
		Completed: c.Query("completed") == "true",
	}
	if raw := c.Query("deadline"); raw != "" {
		deadline, err := parseDeadline(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Deadline invalid"})
			return
		}
		filter.Deadline = &deadline
	}

	user := auth.CurrentUser(c)
	tasks, err := h.store.ListTasks(c.Request.Context(), user.ID, filter)
	if err != nil {
		storeError(c, err)
		return
	}

	out := make([]api.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) HandleUpdateTask(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	var req api.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user := auth.CurrentUser(c)
	task, err := h.store.UpdateTask(c.Request.Context(), user.ID, taskID, store.TaskPatch{
		Title:        req.Title,
		Description:  req.Description,
		Completed:    req.Completed,
		Deadline:     deadlineTime(req.Deadline),
		CollectionID: req.CollectionID,
	})
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskDetailResponse(task))
}

func (h *Handler) HandleDeleteTask(c *gin.Context) {
	taskID, ok := pathID(c, "task_id")
	if !ok {
		return
	}

	user := auth.CurrentUser(c)
	if err := h.store.DeleteTask(c.Request.Context(), user.ID, taskID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TaskDeleteResponse{ID: taskID, Success: true})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// parseDeadline accepts RFC 3339 timestamps plus the date-only and
// space-separated forms the assistant produces.
func parseDeadline(raw string) (time.Time, error) {
	return api.ParseDateTime(raw)
}

func deadlineTime(d *api.DateTime) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
