package assistant

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/collabwrite/collabwrite/pkg/logger"
	"github.com/collabwrite/collabwrite/pkg/metrics"
)

// ChatRequest is the body of POST /api/ai/chat.
type ChatRequest struct {
	Messages        []Message `json:"messages"`
	DocumentContent string    `json:"documentContent"`
}

// RegisterAssistantRoutes registers the AI chat endpoint. The auth
// middleware must reject unauthenticated callers before the provider is
// ever invoked.
func RegisterAssistantRoutes(r *gin.Engine, gw *Gateway, mw ...gin.HandlerFunc) {
	grp := r.Group("/api/ai", mw...)
	grp.POST("/chat", func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// no provider configured behaves like a provider outage
		if gw == nil {
			metrics.AssistantRequests.WithLabelValues("fallback").Inc()
			c.JSON(http.StatusOK, gin.H{
				"error":    "AI service temporarily unavailable",
				"fallback": FallbackText,
			})
			return
		}

		// streaming headers go out with the first chunk; a provider that
		// fails before producing anything leaves them unset so the JSON
		// fallback keeps its own content type
		wrote := false
		err := gw.Stream(c.Request.Context(), req.Messages, req.DocumentContent, func(chunk []byte) error {
			if !wrote {
				c.Header("Content-Type", "text/plain; charset=utf-8")
				c.Header("X-Accel-Buffering", "no")
			}
			if _, werr := c.Writer.Write(chunk); werr != nil {
				return werr
			}
			c.Writer.Flush()
			wrote = true
			return nil
		})
		if err != nil {
			logger.Errorf("assistant request failed: %v", err)
			metrics.AssistantRequests.WithLabelValues("fallback").Inc()
			if wrote {
				// partial output already on the wire; the stream just ends
				return
			}
			// degrade gracefully: canned reply with HTTP 200 so the UI
			// keeps working while the provider is down
			c.JSON(http.StatusOK, gin.H{
				"error":    "AI service temporarily unavailable",
				"fallback": FallbackText,
			})
			return
		}
		metrics.AssistantRequests.WithLabelValues("ok").Inc()
	})
}
