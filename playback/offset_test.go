package playback

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveOffset(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 7, 21, 12, 0, 0, 0, time.UTC)
	e := Event{SourceID: "dQw4w9WgXcQ", ReportedAt: start.UnixMilli(), DurationSeconds: 180}

	cases := []struct {
		name string
		now  time.Time
		want Position
	}{
		{"just started", start, Position{Status: StatusPlaying, Offset: 0}},
		{"sub-second in", start.Add(999 * time.Millisecond), Position{Status: StatusPlaying, Offset: 0}},
		{"one minute in", start.Add(60 * time.Second), Position{Status: StatusPlaying, Offset: 60}},
		{"floors partial seconds", start.Add(61*time.Second + 900*time.Millisecond), Position{Status: StatusPlaying, Offset: 61}},
		{"last millisecond", start.Add(180*time.Second - time.Millisecond), Position{Status: StatusPlaying, Offset: 179}},
		{"exactly at the end", start.Add(180 * time.Second), Position{Status: StatusFinished}},
		{"long finished", start.Add(200 * time.Second), Position{Status: StatusFinished}},
		{"clock skew", start.Add(-time.Second), Position{Status: StatusFinished}},
	}
	for _, tc := range cases {
		got := ResolveOffset(e, tc.now)
		assert.Equal(t, tc.want, got, tc.name)
		if got.Playing() {
			assert.GreaterOrEqual(t, got.Offset, int64(0), tc.name)
			assert.Less(t, got.Offset, e.DurationSeconds, tc.name)
		}
	}
}

func TestResolveOffset_ZeroDurationNeverPlays(t *testing.T) {
	t.Parallel()
	now := time.Now()
	e := Event{ReportedAt: now.UnixMilli(), DurationSeconds: 0}
	assert.Equal(t, Position{Status: StatusFinished}, ResolveOffset(e, now))
}

func TestResolveOffset_HugeDurationDoesNotOverflow(t *testing.T) {
	t.Parallel()
	now := time.Now()
	e := Event{ReportedAt: now.UnixMilli(), DurationSeconds: math.MaxInt64}
	got := ResolveOffset(e, now.Add(10*time.Second))
	assert.Equal(t, Position{Status: StatusPlaying, Offset: 10}, got)
}

func TestEvent_WindowAndLink(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 7, 21, 12, 0, 0, 0, time.UTC)
	e := Event{SourceID: "dQw4w9WgXcQ", ReportedAt: start.UnixMilli(), DurationSeconds: 180}

	from, to := e.Window()
	assert.True(t, from.Equal(start))
	assert.True(t, to.Equal(start.Add(3*time.Minute)))
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ?t=60", e.Link(60))
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", e.Link(0))
}

func TestEvent_WindowSaturates(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 7, 21, 12, 0, 0, 0, time.UTC)
	// PT9999999999H parses to a duration well past what time.Duration can hold
	for _, seconds := range []int64{9999999999 * 3600, math.MaxInt64} {
		e := Event{SourceID: "dQw4w9WgXcQ", ReportedAt: start.UnixMilli(), DurationSeconds: seconds}
		from, to := e.Window()
		assert.True(t, from.Equal(start))
		assert.True(t, to.After(from), "window end %s wrapped before start", to)

		got := ResolveOffset(e, start.Add(time.Hour))
		assert.Equal(t, Position{Status: StatusPlaying, Offset: 3600}, got)
	}
}
