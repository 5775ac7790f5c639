package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/config"
	"github.com/stemsi/coursequiz/internal/handler"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/response"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newBridge(t *testing.T, cfg *config.Config) (*httptest.Server, *notify.Hub) {
	t.Helper()
	hub := notify.NewHub(zerolog.Nop())
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(SetupRouter(handler.NewNotificationHandler(hub, zerolog.Nop(), cfg.AllowedOrigins), cfg))
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications" + query
}

func TestHealthz(t *testing.T) {
	srv, _ := newBridge(t, &config.Config{GinMode: gin.TestMode})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(response.HeaderRequestID))

	var body response.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Nil(t, body.Error)
	require.Equal(t, resp.Header.Get(response.HeaderRequestID), body.Metadata.RequestID)
}

func TestNotificationStream(t *testing.T) {
	srv, hub := newBridge(t, &config.Config{GinMode: gin.TestMode, BridgeToken: "s3cret"})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "?token=s3cret"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify(context.Background(), notify.New(notify.LevelSuccess, "certificate", "c1", "Certificate downloaded successfully"))

	var event struct {
		Event string              `json:"event"`
		Data  notify.Notification `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&event))
	require.Equal(t, "notification", event.Event)
	require.Equal(t, "Certificate downloaded successfully", event.Data.Message)
	require.Equal(t, notify.LevelSuccess, event.Data.Level)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "ping"}))
	var pong map[string]string
	require.NoError(t, conn.ReadJSON(&pong))
	require.Equal(t, "pong", pong["event"])
}

func TestNotificationStreamRequiresToken(t *testing.T) {
	srv, _ := newBridge(t, &config.Config{GinMode: gin.TestMode, BridgeToken: "s3cret"})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "?token=wrong"), nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	header := http.Header{"Authorization": []string{"Bearer s3cret"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), header)
	require.NoError(t, err)
	conn.Close()
}

func TestNotificationStreamRejectsForeignOrigin(t *testing.T) {
	srv, _ := newBridge(t, &config.Config{GinMode: gin.TestMode, AllowedOrigins: []string{"http://localhost:5173"}})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.NotEqual(t, http.StatusSwitchingProtocols, resp.StatusCode)

	header = http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), header)
	require.NoError(t, err)
	conn.Close()
}
