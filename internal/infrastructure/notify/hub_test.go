package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	hub.Start()

	conn := NewConnection()
	hub.Register(conn)

	require.NoError(t, hub.Broadcast(EventAdded, map[string]string{"id": "evt-1"}))

	select {
	case data := <-conn.Send:
		var notification Notification
		require.NoError(t, json.Unmarshal(data, &notification))
		assert.Equal(t, EventAdded, notification.Type)
		assert.NotZero(t, notification.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}
}

func TestHubBroadcastToMultipleConnections(t *testing.T) {
	hub := NewHub()
	hub.Start()

	first := NewConnection()
	second := NewConnection()
	hub.Register(first)
	hub.Register(second)

	require.NoError(t, hub.Broadcast(IndexRebuilt, nil))

	for _, conn := range []*Connection{first, second} {
		select {
		case <-conn.Send:
		case <-time.After(time.Second):
			t.Fatal("broadcast not delivered to all connections")
		}
	}
}

func TestHubUnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	hub.Start()

	conn := NewConnection()
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		assert.False(t, ok, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestHubBroadcastWithoutConnections(t *testing.T) {
	hub := NewHub()
	hub.Start()

	// 没有连接时广播直接丢弃，不阻塞也不报错
	assert.NoError(t, hub.Broadcast(TurnFailed, map[string]string{"reason": "x"}))
}
