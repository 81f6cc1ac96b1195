package main

import (
	"net/http"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/auth"

	"github.com/gin-gonic/gin"
)

// HandleCreateCollection creates a collection and, when task ids were
// supplied, moves the ones that actually exist into it. Ids that don't
// resolve to the caller's tasks are silently skipped.
func (h *Handler) HandleCreateCollection(c *gin.Context) {
	var req api.CollectionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	collection, err := h.store.CreateCollection(ctx, user.ID, req.Name)
	if err != nil {
		storeError(c, err)
		return
	}

	if len(req.Tasks) > 0 {
		existing, err := h.store.VerifyTasksExist(ctx, user.ID, req.Tasks)
		if err != nil {
			storeError(c, err)
			return
		}
		if len(existing) > 0 {
			if err := h.store.BulkAssignCollection(ctx, user.ID, existing, collection.ID); err != nil {
				storeError(c, err)
				return
			}
		}
	}

	detail, err := h.store.GetCollectionByID(ctx, user.ID, collection.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionDetailResponse(detail))
}

func (h *Handler) HandleGetCollection(c *gin.Context) {
	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	user := auth.CurrentUser(c)
	collection, err := h.store.GetCollectionByID(c.Request.Context(), user.ID, collectionID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionDetailResponse(collection))
}

func (h *Handler) HandleListCollections(c *gin.Context) {
	user := auth.CurrentUser(c)
	collections, err := h.store.ListCollections(
		c.Request.Context(),
		user.ID,
		queryInt(c, "offset", 0),
		queryInt(c, "limit", 100),
	)
	if err != nil {
		storeError(c, err)
		return
	}

	out := make([]api.CollectionResponse, 0, len(collections))
	for i := range collections {
		out = append(out, collectionResponse(&collections[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) HandleUpdateCollection(c *gin.Context) {
	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	var req api.CollectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	user := auth.CurrentUser(c)
	if req.Name != nil {
		if _, err := h.store.UpdateCollection(ctx, user.ID, collectionID, *req.Name); err != nil {
			storeError(c, err)
			return
		}
	}

	collection, err := h.store.GetCollectionByID(ctx, user.ID, collectionID)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectionDetailResponse(collection))
}

func (h *Handler) HandleDeleteCollection(c *gin.Context) {
	collectionID, ok := pathID(c, "collection_id")
	if !ok {
		return
	}

	user := auth.CurrentUser(c)
	if err := h.store.DeleteCollection(c.Request.Context(), user.ID, collectionID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.CollectionDeleteResponse{ID: collectionID, Success: true})
}
