package youtube

import (
	"fmt"
	"regexp"

	"github.com/marcus-crane/whatsong/shared"
)

const idLength = 11

// Matches both youtu.be/<id> short links and youtube.com/...?v=<id> watch links.
// The scheme and host are matched case-sensitively.
var videoPattern = regexp.MustCompile(`^https?.*?youtu(?:\.be|be\.com)(?:/|.*?v=)(?P<id>[A-Za-z0-9_-]{11})`)

// ExtractID pulls the 11 character video ID out of a YouTube URL
func ExtractID(url string) (string, error) {
	match := videoPattern.FindStringSubmatch(url)
	if match == nil {
		return "", shared.InvalidSourceURL(url)
	}
	id := match[videoPattern.SubexpIndex("id")]
	if len(id) != idLength {
		return "", shared.InvalidSourceURL(url)
	}
	return id, nil
}

// WatchURL builds a short link to a video, optionally starting offset seconds in
func WatchURL(id string, offset int64) string {
	if offset <= 0 {
		return fmt.Sprintf("https://youtu.be/%s", id)
	}
	return fmt.Sprintf("https://youtu.be/%s?t=%d", id, offset)
}
