package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := New()
	a := h.Subscribe()
	b := h.Subscribe()
	require.Equal(t, 2, h.Len())

	payload := []byte(`{"seat":"1A"}`)
	h.Publish(payload)

	assert.Equal(t, payload, <-a)
	assert.Equal(t, payload, <-b)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New()
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, h.Len())

	// Double unsubscribe must not panic on a closed channel.
	h.Unsubscribe(ch)
}

func TestPublishSkipsUnsubscribed(t *testing.T) {
	h := New()
	gone := h.Subscribe()
	stay := h.Subscribe()
	h.Unsubscribe(gone)

	h.Publish([]byte("x"))

	assert.Equal(t, []byte("x"), <-stay)
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	h := New()
	slow := h.Subscribe()

	// Fill the subscriber's buffer and keep publishing; the extra frames are
	// dropped rather than blocking the broadcast.
	for i := 0; i < subscriberBuffer*3; i++ {
		h.Publish([]byte("frame"))
	}

	assert.Len(t, slow, subscriberBuffer)
}
