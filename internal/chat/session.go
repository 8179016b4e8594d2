package chat

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/collabwrite/collabwrite/internal/autosave"
	"github.com/collabwrite/collabwrite/internal/document/service"
	"github.com/collabwrite/collabwrite/pkg/logger"
	"github.com/collabwrite/collabwrite/pkg/middleware"
)

// Frame is one inbound websocket message from the editor.
// Types: "edit" (draft changed), "save" (manual save), "chat" (chat message).
type Frame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// ChatMessage is an ephemeral chat turn. It lives only for the duration of
// the websocket session and is never persisted.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user | assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// dev policy, same as the HTTP CORS middleware
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Session is one editing session over a websocket: it owns the autosave
// controller for its document and the simulated chat responder. The timer
// handle lives inside the controller and is canceled on teardown.
type session struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	ctrl      *autosave.Controller
	responder *Responder
	user      middleware.Identity
	docID     string
}

func (s *session) writeJSON(v interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		logger.Debugf("ws write failed (doc=%s): %v", s.docID, err)
	}
}

func (s *session) handleChat(content string) {
	msg := ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	s.writeJSON(gin.H{"type": "chat", "mode": "simulated", "message": msg})

	// canned reply after a randomized delay, as the demo UI does
	time.AfterFunc(s.responder.Delay(), func() {
		reply := ChatMessage{
			ID:        uuid.NewString(),
			Role:      "assistant",
			Content:   s.responder.Reply(),
			Timestamp: time.Now().UTC(),
		}
		s.writeJSON(gin.H{"type": "chat", "mode": "simulated", "message": reply})
	})
}

// RegisterChatRoutes registers the websocket editing-session endpoint.
// debounce bounds the autosave idle window; responder produces the simulated
// chat replies.
func RegisterChatRoutes(r *gin.Engine, svc service.Service, debounce time.Duration, responder *Responder, mw ...gin.HandlerFunc) {
	grp := r.Group("/ws", mw...)
	grp.GET("/documents/:id", func(c *gin.Context) {
		id := c.Param("id")
		doc, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		user, _ := middleware.UserFromContext(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warnf("ws upgrade failed (doc=%s): %v", id, err)
			return
		}
		defer conn.Close()

		s := &session{conn: conn, responder: responder, user: user, docID: id}
		s.ctrl = autosave.New(func(content string) error {
			_, err := svc.UpdateContent(context.Background(), id, content)
			if err == nil {
				s.writeJSON(gin.H{"type": "saved", "lastSaved": time.Now().UTC()})
			}
			return err
		}, debounce)
		// a save issued before any edit must persist what is already
		// stored, not an empty draft
		s.ctrl.Seed(doc.Content)
		s.ctrl.OnError(func(err error) {
			logger.Errorf("autosave failed (doc=%s): %v", id, err)
			s.writeJSON(gin.H{"type": "error", "message": "Failed to save document"})
		})
		defer s.ctrl.Close()

		s.writeJSON(gin.H{"type": "hello", "mode": "simulated", "document": id})

		for {
			var f Frame
			if err := conn.ReadJSON(&f); err != nil {
				return
			}
			switch f.Type {
			case "edit":
				s.ctrl.Changed(f.Content)
			case "save":
				s.ctrl.SaveNow()
			case "chat":
				s.handleChat(f.Content)
			default:
				s.writeJSON(gin.H{"type": "error", "message": "unknown frame type"})
			}
		}
	})
}
