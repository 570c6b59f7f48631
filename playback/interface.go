package playback

import (
	"context"
	"math"
	"time"

	"github.com/marcus-crane/whatsong/youtube"
)

type System interface {
	Insert(ctx context.Context, report Report) (Event, error)
	Current(ctx context.Context) (Event, error)
	Previous(ctx context.Context) (Event, error)
	All(ctx context.Context) ([]Event, error)
	Count(ctx context.Context) (int64, error)
}

// Catalog resolves a video ID into the metadata we persist alongside it
type Catalog interface {
	Lookup(ctx context.Context, id string) (youtube.Metadata, error)
}

// Broadcaster is notified whenever a new event is durably recorded
type Broadcaster interface {
	Broadcast(stream string, payload any) error
}

// Report is what a client sends when something starts playing
type Report struct {
	SourceURL  string `json:"source_url"`
	ReportedAt int64  `json:"reported_at_ms"`
	Version    int    `json:"version"`
}

// Event is a single entry in the append-only playback log. Sequence is assigned
// by the store and defines the order of events regardless of ReportedAt.
type Event struct {
	Sequence        int64  `db:"sequence" json:"sequence"`
	SourceID        string `db:"source_id" json:"source_id"`
	ReportedAt      int64  `db:"reported_at" json:"reported_at"` // milliseconds
	DurationSeconds int64  `db:"duration_seconds" json:"duration_seconds"`
	Title           string `db:"title" json:"title"`
	Version         int    `db:"version" json:"version"`
}

func (e Event) StartedAt() time.Time {
	return time.UnixMilli(e.ReportedAt)
}

// Window is the half-open interval [start, end) during which the event counts as playing
func (e Event) Window() (time.Time, time.Time) {
	start := e.StartedAt()
	return start, start.Add(windowLength(e.DurationSeconds))
}

// windowLength saturates at the largest time.Duration instead of wrapping
func windowLength(seconds int64) time.Duration {
	if seconds > int64(math.MaxInt64/time.Second) {
		return math.MaxInt64
	}
	return time.Duration(seconds) * time.Second
}

func (e Event) Link(offset int64) string {
	return youtube.WatchURL(e.SourceID, offset)
}
