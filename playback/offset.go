package playback

import (
	"time"
)

type Status string

const (
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Position is where a viewer joining right now should start watching. Offset is
// only meaningful while Status is StatusPlaying; an offset of 0 in that state
// means "from the beginning", not "nothing playing".
type Position struct {
	Status Status `json:"status"`
	Offset int64  `json:"offset_seconds"`
}

func (p Position) Playing() bool {
	return p.Status == StatusPlaying
}

// ResolveOffset works out how far into e's playback window now falls. Anything
// before the window starts (clock skew) or at/after it ends is finished.
func ResolveOffset(e Event, now time.Time) Position {
	start, end := e.Window()
	if now.Before(start) || !now.Before(end) {
		return Position{Status: StatusFinished}
	}
	return Position{Status: StatusPlaying, Offset: int64(now.Sub(start) / time.Second)}
}
