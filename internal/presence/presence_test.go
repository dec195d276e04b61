package presence

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOnlineLifecycle(t *testing.T) {
	registry := NewRegistry()

	assert.False(t, registry.IsOnline(1))

	client := make(Client, 1)
	registry.SetOnline(1, client)
	assert.True(t, registry.IsOnline(1))
	assert.False(t, registry.IsOnline(2))

	registry.ClearByConnection(client)
	assert.False(t, registry.IsOnline(1))

	// The channel is closed so the stream handler unblocks.
	_, open := <-client
	assert.False(t, open)
}

func TestRegistryMultipleConnections(t *testing.T) {
	registry := NewRegistry()

	first := make(Client, 1)
	second := make(Client, 1)
	registry.SetOnline(1, first)
	registry.SetOnline(1, second)

	// Dropping one device keeps the user online.
	registry.ClearByConnection(first)
	assert.True(t, registry.IsOnline(1))

	registry.ClearByConnection(second)
	assert.False(t, registry.IsOnline(1))
}

func TestRegistryPush(t *testing.T) {
	registry := NewRegistry()

	first := make(Client, 1)
	second := make(Client, 1)
	registry.SetOnline(1, first)
	registry.SetOnline(1, second)

	registry.Push(1, Event{Type: "friend_request", Payload: map[string]uint{"sender_id": 2}})

	for _, client := range []Client{first, second} {
		message := <-client
		var event Event
		require.NoError(t, json.Unmarshal(message, &event))
		assert.Equal(t, "friend_request", event.Type)
	}

	// Pushing to an offline user is a no-op.
	registry.Push(99, Event{Type: "friend_request"})
}

func TestRegistryPushDoesNotBlockOnFullChannel(t *testing.T) {
	registry := NewRegistry()

	client := make(Client, 1)
	registry.SetOnline(1, client)

	registry.Push(1, Event{Type: "first"})
	// The buffer is full now; the send is dropped instead of blocking.
	registry.Push(1, Event{Type: "second"})

	message := <-client
	var event Event
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, "first", event.Type)

	select {
	case <-client:
		t.Fatal("expected the second push to be dropped")
	default:
	}
}

func TestClearByConnectionUnknownClient(t *testing.T) {
	registry := NewRegistry()

	// Clearing a connection that was never registered must not panic.
	registry.ClearByConnection(make(Client))
}
