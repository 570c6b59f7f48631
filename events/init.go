package events

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/r3labs/sse/v2"

	"github.com/marcus-crane/whatsong/shared"
)

// Broadcaster pushes JSON payloads to connected SSE clients
type Broadcaster struct {
	server *sse.Server
}

func New() *Broadcaster {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(shared.STREAM_PLAYBACK)
	server.CreateStream(shared.STREAM_NOW_PLAYING)
	return &Broadcaster{server: server}
}

func (b *Broadcaster) Broadcast(stream string, payload any) error {
	if !b.server.StreamExists(stream) {
		return fmt.Errorf("unknown stream: %s", stream)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", stream, err)
	}
	b.server.Publish(stream, &sse.Event{Data: data})
	return nil
}

// ServeHTTP serves the stream named by the ?stream= query parameter
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.server.ServeHTTP(w, r)
}

func (b *Broadcaster) Close() {
	b.server.Close()
}
