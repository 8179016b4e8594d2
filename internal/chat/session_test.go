package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/collabwrite/collabwrite/internal/document/service"
	"github.com/collabwrite/collabwrite/pkg/middleware"
)

func newChatServer(t *testing.T, debounce time.Duration) (*httptest.Server, service.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := service.NewMemoryService()
	r := gin.New()
	setUser := func(c *gin.Context) {
		middleware.SetUser(c, middleware.Identity{ID: "user-1", Name: "Alice"})
		c.Next()
	}
	RegisterChatRoutes(r, svc, debounce, NewResponder(5*time.Millisecond, 10*time.Millisecond), setUser)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func dial(t *testing.T, srv *httptest.Server, docID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/documents/" + docID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f map[string]interface{}
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

// readUntil skips frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *websocket.Conn, frameType string) map[string]interface{} {
	t.Helper()
	for i := 0; i < 10; i++ {
		f := readFrame(t, conn)
		if f["type"] == frameType {
			return f
		}
	}
	t.Fatalf("no %q frame received", frameType)
	return nil
}

func TestSessionRejectsUnknownDocument(t *testing.T) {
	srv, _ := newChatServer(t, 30*time.Millisecond)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/documents/nosuchid1"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionHelloAdvertisesSimulatedMode(t *testing.T) {
	srv, svc := newChatServer(t, 30*time.Millisecond)
	d, err := svc.Create(context.Background(), "Doc", "c", "user-1", "Alice", "")
	require.NoError(t, err)

	conn := dial(t, srv, d.ID)
	hello := readFrame(t, conn)
	require.Equal(t, "hello", hello["type"])
	require.Equal(t, "simulated", hello["mode"])
	require.Equal(t, d.ID, hello["document"])
}

func TestSessionEditDebouncesThenSaves(t *testing.T) {
	srv, svc := newChatServer(t, 30*time.Millisecond)
	d, err := svc.Create(context.Background(), "Doc", "old", "user-1", "Alice", "")
	require.NoError(t, err)

	conn := dial(t, srv, d.ID)
	readUntil(t, conn, "hello")

	// burst of edits: one save of the final draft after the quiet window
	for _, draft := range []string{"d", "dr", "draft v2"} {
		require.NoError(t, conn.WriteJSON(Frame{Type: "edit", Content: draft}))
	}

	saved := readUntil(t, conn, "saved")
	require.NotEmpty(t, saved["lastSaved"])

	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, "draft v2", got.Content)
}

func TestSessionManualSave(t *testing.T) {
	srv, svc := newChatServer(t, time.Hour)
	d, err := svc.Create(context.Background(), "Doc", "old", "user-1", "Alice", "")
	require.NoError(t, err)

	conn := dial(t, srv, d.ID)
	readUntil(t, conn, "hello")

	require.NoError(t, conn.WriteJSON(Frame{Type: "edit", Content: "manual draft"}))
	require.NoError(t, conn.WriteJSON(Frame{Type: "save"}))

	readUntil(t, conn, "saved")
	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, "manual draft", got.Content)
}

func TestSessionSaveBeforeEditKeepsStoredContent(t *testing.T) {
	srv, svc := newChatServer(t, time.Hour)
	d, err := svc.Create(context.Background(), "Doc", "precious content", "user-1", "Alice", "")
	require.NoError(t, err)

	conn := dial(t, srv, d.ID)
	readUntil(t, conn, "hello")

	// a manual save with no prior edit must not erase the stored content
	require.NoError(t, conn.WriteJSON(Frame{Type: "save"}))
	readUntil(t, conn, "saved")

	got, err := svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, "precious content", got.Content)
}

func TestSessionChatEchoAndCannedReply(t *testing.T) {
	srv, svc := newChatServer(t, time.Hour)
	d, err := svc.Create(context.Background(), "Doc", "c", "user-1", "Alice", "")
	require.NoError(t, err)

	conn := dial(t, srv, d.ID)
	readUntil(t, conn, "hello")

	require.NoError(t, conn.WriteJSON(Frame{Type: "chat", Content: "what do you think?"}))

	echo := readUntil(t, conn, "chat")
	require.Equal(t, "simulated", echo["mode"])
	msg := echo["message"].(map[string]interface{})
	require.Equal(t, "user", msg["role"])
	require.Equal(t, "what do you think?", msg["content"])
	require.NotEmpty(t, msg["id"])

	reply := readUntil(t, conn, "chat")
	rmsg := reply["message"].(map[string]interface{})
	require.Equal(t, "assistant", rmsg["role"])
	require.Contains(t, cannedReplies, rmsg["content"])
}

func TestSessionUnknownFrameType(t *testing.T) {
	srv, svc := newChatServer(t, time.Hour)
	d, err := svc.Create(context.Background(), "Doc", "c", "user-1", "Alice", "")
	require.NoError(t, err)

	conn := dial(t, srv, d.ID)
	readUntil(t, conn, "hello")

	require.NoError(t, conn.WriteJSON(Frame{Type: "presence"}))
	errFrame := readUntil(t, conn, "error")
	require.Equal(t, "unknown frame type", errFrame["message"])
}
