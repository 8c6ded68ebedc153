package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "client channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := startHub(t)
	a := NewClient(hub, nil, "alice")
	b := NewClient(hub, nil, "")
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	movie := &domain.Movie{ID: uuid.New(), Name: "Dune", User: &domain.User{Username: "alice"}}
	hub.MovieCreated(movie)

	for _, c := range []*Client{a, b} {
		msg := receive(t, c)
		assert.Equal(t, MessageTypeMovieCreated, msg.Type)

		var payload MoviePayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, MoviePayload{ID: movie.ID.String(), Name: "Dune", Owner: "alice"}, payload)
	}
}

func TestHub_EventTypes(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "")
	hub.Register(c)

	movie := &domain.Movie{ID: uuid.New(), Name: "Heat"}
	hub.MovieUpdated(movie)
	hub.MovieDeleted(movie.ID)

	assert.Equal(t, MessageTypeMovieUpdated, receive(t, c).Type)

	deleted := receive(t, c)
	assert.Equal(t, MessageTypeMovieDeleted, deleted.Type)
	assert.JSONEq(t, `{"id":"`+movie.ID.String()+`"}`, string(deleted.Payload))
}

func TestHub_Unregister(t *testing.T) {
	hub := startHub(t)
	c := NewClient(hub, nil, "")
	hub.Register(c)
	hub.Unregister(c)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-c.send
	assert.False(t, ok, "unregistered client should be closed")

	// A second unregister is harmless.
	hub.Unregister(c)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := NewClient(hub, nil, "")
	fast := NewClient(hub, nil, "")
	hub.Register(slow)
	hub.Register(fast)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	for slow.trySend([]byte("{}")) {
	}

	hub.MovieDeleted(uuid.New())

	assert.Equal(t, MessageTypeMovieDeleted, receive(t, fast).Type)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()

	c := NewClient(hub, nil, "")
	hub.Register(c)

	hub.Stop()
	hub.Stop()

	assert.Equal(t, 0, hub.ClientCount())
	_, ok := <-c.send
	assert.False(t, ok)

	// Late registrations are closed immediately.
	late := NewClient(hub, nil, "")
	hub.Register(late)
	_, ok = <-late.send
	assert.False(t, ok)

	// Broadcasting after stop must not block or panic.
	hub.MovieDeleted(uuid.New())
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < broadcastBuffer*2; i++ {
			hub.MovieDeleted(uuid.New())
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked with no hub running")
	}
	assert.Len(t, hub.broadcast, broadcastBuffer)
}
