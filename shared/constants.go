package shared

const (
	// CurrentAPIVersion is the only ingestion protocol version accepted by the store
	CurrentAPIVersion = 1

	// SOURCE_YOUTUBE names the only media source, and its ingestion and listing routes
	SOURCE_YOUTUBE = "youtube"

	STREAM_PLAYBACK    = "playback"
	STREAM_NOW_PLAYING = "nowplaying"

	USER_AGENT = "Whatsong/1.0 <github.com/marcus-crane/whatsong>"
)
