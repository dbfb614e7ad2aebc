package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/eletters/backend/internal/models"
	ws "github.com/eletters/backend/internal/websocket"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_Connection(t *testing.T) {
	_ = os.Setenv("ELETTERS_TEST_MODE", "true")
	defer func() {
		_ = os.Unsetenv("ELETTERS_TEST_MODE")
	}()

	hub := ws.NewHub(10)
	handler := NewWebSocketHandler(hub)

	server := httptest.NewServer(http.HandlerFunc(handler.Handle))
	defer server.Close()

	// Convert http:// to ws://
	wsURL := "ws" + server.URL[4:]

	t.Run("rejects connection without a token", func(t *testing.T) {
		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("connects with a token query parameter", func(t *testing.T) {
		conn, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=principal:"+testRecipientID, nil)
		require.NoError(t, err, "Failed to connect")
		defer func() { _ = conn.Close() }()

		assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

		// Wait for the registration to land.
		deadline := time.Now().Add(2 * time.Second)
		for hub.ActiveConnections(testRecipientID) == 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		assert.Equal(t, 1, hub.ActiveConnections(testRecipientID))
	})

	t.Run("receives a delivery notification", func(t *testing.T) {
		principalID := "44444444-4444-4444-4444-444444444444"

		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=principal:"+principalID, nil)
		require.NoError(t, err, "Failed to connect")
		defer func() { _ = conn.Close() }()

		deadline := time.Now().Add(2 * time.Second)
		for hub.ActiveConnections(principalID) == 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}
		require.Equal(t, 1, hub.ActiveConnections(principalID))

		hub.NotifyLetter(principalID, &models.Letter{ID: "letter-1", SenderID: testSenderID})

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), "letter.delivered")
	})
}
