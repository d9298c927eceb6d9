package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// dialHub connects a websocket client to a hub channel and returns both ends.
// It only returns once the server side has been registered with the hub.
func dialHub(t *testing.T, hub *Hub, channel string) (client, server *websocket.Conn) {
	t.Helper()

	registered := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.AddConnection(channel, conn)
		registered <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client, <-registered
}

func TestBroadcastDeliversToChannel(t *testing.T) {
	hub := NewHub()
	client, _ := dialHub(t, hub, OverviewChannel)

	hub.Broadcast(OverviewChannel, WSMessage{Type: "summary_updated", Data: "x"})

	_, data, err := client.ReadMessage()
	require.NoError(t, err)

	var msg WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "summary_updated", msg.Type)
	assert.Equal(t, "x", msg.Data)
}

func TestBroadcastSerializesConcurrentSenders(t *testing.T) {
	hub := NewHub()
	client, _ := dialHub(t, hub, OverviewChannel)

	// Several webhook deliveries may fan out to the same viewers at once;
	// every frame must still arrive intact.
	const senders, perSender = 4, 200
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				hub.Broadcast(OverviewChannel, WSMessage{Type: "summary_updated"})
			}
		}()
	}

	for i := 0; i < senders*perSender; i++ {
		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		require.Equal(t, "summary_updated", msg.Type)
	}
	wg.Wait()
}

func TestBroadcastPrunesDeadConnections(t *testing.T) {
	hub := NewHub()
	_, server := dialHub(t, hub, OverviewChannel)

	require.NoError(t, server.Close())
	hub.Broadcast(OverviewChannel, WSMessage{Type: "summary_updated"})

	hub.mu.RLock()
	remaining := len(hub.channels[OverviewChannel])
	hub.mu.RUnlock()
	assert.Zero(t, remaining, "a conn that fails a write is dropped from the channel")

	// A later broadcast to the emptied channel is a no-op.
	hub.Broadcast(OverviewChannel, WSMessage{Type: "summary_updated"})
}

func TestRemoveConnectionClosesAndDropsChannel(t *testing.T) {
	hub := NewHub()
	client, server := dialHub(t, hub, "token-a")

	hub.RemoveConnection("token-a", server)

	_, _, err := client.ReadMessage()
	assert.Error(t, err, "removal closes the server side of the conn")

	hub.mu.RLock()
	_, ok := hub.channels["token-a"]
	hub.mu.RUnlock()
	assert.False(t, ok, "an emptied channel is forgotten")
}
