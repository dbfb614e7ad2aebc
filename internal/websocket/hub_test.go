package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eletters/backend/internal/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialClient connects one WebSocket client and registers it with the hub
// under the given principal id.
func dialClient(t *testing.T, hub *Hub, principalID string) (*websocket.Conn, *Client) {
	t.Helper()

	registered := make(chan *Client, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade: %v", err)
			return
		}
		registered <- hub.Register(principalID, conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + server.URL[4:]
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Failed to dial")
	t.Cleanup(func() { _ = conn.Close() })

	select {
	case client := <-registered:
		return conn, client
	case <-time.After(2 * time.Second):
		t.Fatal("Register was not called within timeout")
		return nil, nil
	}
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub(10)

	_, client := dialClient(t, hub, "principal-1")
	require.NotNil(t, client)
	assert.Equal(t, 1, hub.ActiveConnections("principal-1"))

	_, second := dialClient(t, hub, "principal-1")
	assert.Equal(t, 2, hub.ActiveConnections("principal-1"))

	hub.Unregister("principal-1", client)
	assert.Equal(t, 1, hub.ActiveConnections("principal-1"))

	hub.Unregister("principal-1", second)
	assert.Equal(t, 0, hub.ActiveConnections("principal-1"))
}

func TestHubConnectionLimit(t *testing.T) {
	hub := NewHub(1)

	_, first := dialClient(t, hub, "principal-1")
	require.NotNil(t, first)

	_, second := dialClient(t, hub, "principal-1")
	assert.Nil(t, second, "connections beyond the limit are refused")
	assert.Equal(t, 1, hub.ActiveConnections("principal-1"))
}

func TestHubUnregisterNilClient(t *testing.T) {
	hub := NewHub(10)
	hub.Unregister("principal-1", nil)
	assert.Equal(t, 0, hub.ActiveConnections("principal-1"))
}

func TestHubNotifyLetter(t *testing.T) {
	hub := NewHub(10)

	conn, client := dialClient(t, hub, "recipient-1")
	require.NotNil(t, client)

	letter := &models.Letter{ID: "letter-1", SenderID: "sender-1", RecipientID: "recipient-1"}
	hub.NotifyLetter("recipient-1", letter)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var notification struct {
		Type     string `json:"type"`
		LetterID string `json:"letter_id"`
		SenderID string `json:"sender_id"`
	}
	require.NoError(t, json.Unmarshal(msg, &notification))
	assert.Equal(t, "letter.delivered", notification.Type)
	assert.Equal(t, "letter-1", notification.LetterID)
	assert.Equal(t, "sender-1", notification.SenderID)
}

func TestHubNotifyLetterNoConnections(t *testing.T) {
	hub := NewHub(10)

	// Nothing registered for this principal; must not panic.
	hub.NotifyLetter("recipient-1", &models.Letter{ID: "letter-1", SenderID: "sender-1"})
}
