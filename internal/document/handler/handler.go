package handler

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/collabwrite/collabwrite/internal/document"
	"github.com/collabwrite/collabwrite/internal/document/service"
	"github.com/collabwrite/collabwrite/internal/storage"
	"github.com/collabwrite/collabwrite/pkg/middleware"
)

// RegisterDocumentRoutes registers the document CRUD endpoints under
// /api/documents. Every route sits behind the supplied auth middleware;
// unauthenticated requests are rejected before any store access. exports
// may be nil, in which case the export endpoint reports unavailable.
func RegisterDocumentRoutes(r *gin.Engine, svc service.Service, exports *storage.ExportStore, mw ...gin.HandlerFunc) {
	grp := r.Group("/api/documents", mw...)

	// List the caller's documents, most recently updated first.
	grp.GET("", func(c *gin.Context) {
		user, ok := middleware.UserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		list, err := svc.List(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		})
		c.JSON(http.StatusOK, list)
	})

	// Create a document; the owner is seeded as first collaborator.
	grp.POST("", func(c *gin.Context) {
		user, ok := middleware.UserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req struct {
			Title       string `json:"title" binding:"required"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		content := req.Description
		if content == "" {
			content = fmt.Sprintf("# %s\n\nStart writing here...", req.Title)
		}
		d, err := svc.Create(c.Request.Context(), req.Title, content, user.ID, user.Name, user.Image)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusCreated, d)
	})

	// Fetch-or-placeholder: an unknown id yields a synthesized placeholder
	// record rather than an error, matching the editor's loading flow.
	grp.GET("/:id", func(c *gin.Context) {
		id := c.Param("id")
		d, err := svc.Get(c.Request.Context(), id)
		if err == service.ErrNotFound {
			user, _ := middleware.UserFromContext(c)
			now := time.Now().UTC()
			c.JSON(http.StatusOK, document.Document{
				ID:        id,
				Title:     "Loading...",
				Content:   "Loading document...",
				CreatedAt: now,
				UpdatedAt: now,
				OwnerID:   user.ID,
			})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, d)
	})

	// Whole-record content overwrite; no field-level patch semantics.
	grp.PATCH("/:id", func(c *gin.Context) {
		id := c.Param("id")
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		d, err := svc.UpdateContent(c.Request.Context(), id, req.Content)
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": d.ID, "updatedAt": d.UpdatedAt})
	})

	// Delete is idempotent: absent ids still return 204.
	grp.DELETE("/:id", func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Export the current snapshot as markdown to object storage and hand
	// back a presigned download URL.
	grp.POST("/:id/export", func(c *gin.Context) {
		if exports == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "export storage not configured"})
			return
		}
		id := c.Param("id")
		d, err := svc.Get(c.Request.Context(), id)
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		key := fmt.Sprintf("%s/%d.md", d.ID, time.Now().UTC().Unix())
		if err := exports.PutMarkdown(c.Request.Context(), key, d.Content); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		url, err := exports.PresignedURL(c.Request.Context(), key, 15*time.Minute)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"key": key, "url": url})
	})
}
