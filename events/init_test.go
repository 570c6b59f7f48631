package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcus-crane/whatsong/shared"
)

func TestBroadcast_KnownStreams(t *testing.T) {
	b := New()
	defer b.Close()

	assert.NoError(t, b.Broadcast(shared.STREAM_PLAYBACK, map[string]string{"title": "a song"}))
	assert.NoError(t, b.Broadcast(shared.STREAM_NOW_PLAYING, map[string]int{"offset_seconds": 3}))
}

func TestBroadcast_UnknownStream(t *testing.T) {
	b := New()
	defer b.Close()

	assert.Error(t, b.Broadcast("nope", "payload"))
}

func TestBroadcast_UnmarshallablePayload(t *testing.T) {
	b := New()
	defer b.Close()

	assert.Error(t, b.Broadcast(shared.STREAM_PLAYBACK, make(chan int)))
}
