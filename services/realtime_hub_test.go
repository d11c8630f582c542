package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *RealtimeHub, userID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client := NewWSClient(userID, conn)
		hub.Register(client)
		go client.WritePump()
		close(registered)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered with the hub")
	}
	return conn
}

func TestHubBroadcastReachesOnlyTheUser(t *testing.T) {
	hub := NewRealtimeHub()
	alice := dialHub(t, hub, 1)
	bob := dialHub(t, hub, 2)

	hub.Broadcast(1, "analysis.completed", map[string]any{"analysis_id": 9})

	require.NoError(t, alice.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := alice.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Kind string         `json:"kind"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, "analysis.completed", event.Kind)
	assert.EqualValues(t, 9, event.Data["analysis_id"])

	// Bob must stay silent.
	require.NoError(t, bob.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err)
}

// Comparison fan-out broadcasts from several goroutines at once; every frame
// must still arrive intact because only the write pump touches the
// connection.
func TestHubConcurrentBroadcasts(t *testing.T) {
	hub := NewRealtimeHub()
	conn := dialHub(t, hub, 1)

	const writers = 4
	const perWriter = 5

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				hub.Broadcast(1, "compare.result", map[string]any{"writer": w, "seq": i})
			}
		}(w)
	}

	received := 0
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for received < writers*perWriter {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var event struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(msg, &event), "frame arrived corrupted")
		assert.Equal(t, "compare.result", event.Kind)
		received++
	}
	wg.Wait()

	// The send queue may shed load under pressure, but whatever arrives has
	// to be whole frames, and at least the buffered window must make it.
	assert.GreaterOrEqual(t, received, sendBuffer)
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewRealtimeHub()

	var client *WSClient
	registered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		client = NewWSClient(1, conn)
		hub.Register(client)
		go client.WritePump()
		close(registered)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("client never registered with the hub")
	}

	hub.Unregister(client)
	hub.Unregister(client) // second call is a no-op, not a panic

	// Closing the queue stops the write pump, which closes the connection;
	// broadcasting afterwards reaches nobody.
	hub.Broadcast(1, "analysis.completed", nil)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
