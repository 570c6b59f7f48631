package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus-crane/whatsong/playback"
	"github.com/marcus-crane/whatsong/shared"
)

// CurrentReader is the part of the event store the ticker needs
type CurrentReader interface {
	Current(ctx context.Context) (playback.Event, error)
}

type Snapshot struct {
	Event playback.Event `json:"event"`
	playback.Position
	Link string `json:"link"`
}

// NowPlaying periodically resolves the current event and tells subscribers
// when it starts or stops playing
type NowPlaying struct {
	reader      CurrentReader
	broadcaster playback.Broadcaster
	now         func() time.Time

	mu           sync.Mutex
	lastSequence int64
	lastStatus   playback.Status
}

func NewNowPlaying(reader CurrentReader, broadcaster playback.Broadcaster) *NowPlaying {
	return &NowPlaying{
		reader:      reader,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// Tick broadcasts a snapshot when the current event or its status changed since
// the previous tick. It reports whether anything was sent.
func (np *NowPlaying) Tick(ctx context.Context) bool {
	event, err := np.reader.Current(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return false
	}
	if err != nil {
		slog.Warn("Failed to read current event", slog.Any("error", err))
		return false
	}

	position := playback.ResolveOffset(event, np.now())

	np.mu.Lock()
	defer np.mu.Unlock()

	if event.Sequence == np.lastSequence && position.Status == np.lastStatus {
		return false
	}

	snapshot := Snapshot{Event: event, Position: position, Link: event.Link(0)}
	if position.Playing() {
		snapshot.Link = event.Link(position.Offset)
	}
	if err := np.broadcaster.Broadcast(shared.STREAM_NOW_PLAYING, snapshot); err != nil {
		slog.Warn("Failed to broadcast now playing", slog.Any("error", err))
		return false
	}

	slog.Debug("Now playing changed",
		slog.Int64("sequence", event.Sequence),
		slog.String("status", string(position.Status)))
	np.lastSequence = event.Sequence
	np.lastStatus = position.Status
	return true
}
