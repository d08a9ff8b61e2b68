package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHubServer(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(testLogger())
	r := gin.New()
	r.GET("/ws", hub.HandleConnections)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return hub, "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func TestHubSendsQueueUpdates(t *testing.T) {
	hub, url := newTestHubServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	updates := make(chan WsQueueUpdate)
	finished := make(chan struct{})
	defer close(finished)
	go func() {
		defer close(updates)
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			var update WsQueueUpdate
			if err := conn.ReadJSON(&update); err != nil {
				return
			}
			select {
			case updates <- update:
			case <-finished:
				return
			}
		}
	}()

	// Updates sent before the client is registered reach nobody, keep
	// enqueueing until one arrives.
	q := NewQueue(nil, hub)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	q.Enqueue(Job{ID: 1})
	for {
		select {
		case update, ok := <-updates:
			require.True(t, ok, "connection closed before an update arrived")
			assert.Equal(t, "queue_update", update.Type)
			require.NotEmpty(t, update.Jobs)
			assert.Equal(t, int64(1), update.Jobs[0].ID)
			return
		case <-ticker.C:
			q.Enqueue(Job{ID: int64(q.Len() + 1)})
		}
	}
}

func TestHubClosesConnectionsAfterStop(t *testing.T) {
	hub, url := newTestHubServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("hub did not stop")
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.False(t, isTimeout(err), "connection should be closed, not left hanging")
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
