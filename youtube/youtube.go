package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/marcus-crane/whatsong/config"
	"github.com/marcus-crane/whatsong/metrics"
	"github.com/marcus-crane/whatsong/shared"
	"github.com/marcus-crane/whatsong/utils"
)

const (
	VIDEOS_ENDPOINT = "/videos"

	lookupParts  = "snippet,contentDetails"
	lookupFields = "items(id,snippet(title),contentDetails(duration))"
)

// Metadata is what the catalog knows about a single video
type Metadata struct {
	Title           string
	DurationSeconds int64
}

type VideoListResponse struct {
	Items []VideoItem `json:"items"`
}

type VideoItem struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	ContentDetails ContentDetails `json:"contentDetails"`
}

type Snippet struct {
	Title string `json:"title"`
}

type ContentDetails struct {
	Duration string `json:"duration"`
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds the shared request. Callers' own deadlines only decide
	// how long they wait for it.
	Timeout time.Duration

	limiter *rate.Limiter
	group   singleflight.Group
}

func NewClient(cfg config.Config) *Client {
	timeout := cfg.LookupTimeout()
	rps := cfg.Youtube.RequestsPerSecond
	return &Client{
		APIKey:     cfg.Youtube.APIKey,
		BaseURL:    cfg.Youtube.BaseURL,
		HTTPClient: utils.NewHTTPClient(timeout),
		Timeout:    timeout,
		limiter:    rate.NewLimiter(rate.Limit(rps), max(1, int(rps))),
	}
}

func (c *Client) buildURL(id string) string {
	q := url.Values{}
	q.Set("part", lookupParts)
	q.Set("fields", lookupFields)
	q.Set("id", id)
	q.Set("key", c.APIKey)
	return fmt.Sprintf("%s%s?%s", c.BaseURL, VIDEOS_ENDPOINT, q.Encode())
}

// Lookup fetches the title and duration of a video. Concurrent lookups for
// the same ID share a single request, which runs detached from every caller and
// is bounded by Timeout. Each caller still gives up on its own ctx.
func (c *Client) Lookup(ctx context.Context, id string) (Metadata, error) {
	ch := c.group.DoChan(id, func() (interface{}, error) {
		return c.lookup(context.WithoutCancel(ctx), id)
	})
	select {
	case res := <-ch:
		if res.Shared {
			slog.Debug("Shared in-flight YouTube lookup", slog.String("video_id", id))
		}
		if res.Err != nil {
			return Metadata{}, res.Err
		}
		return res.Val.(Metadata), nil
	case <-ctx.Done():
		return Metadata{}, shared.MetadataUnavailable(fmt.Errorf("stopped waiting for lookup: %w", ctx.Err()))
	}
}

func (c *Client) lookup(ctx context.Context, id string) (md Metadata, err error) {
	started := time.Now()
	defer func() { metrics.ObserveLookup(started, err) }()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return md, shared.MetadataUnavailable(fmt.Errorf("waiting for quota: %w", err))
		}
	}

	videos, err := c.getVideos(ctx, id)
	if err != nil {
		slog.Error("Failed to contact YouTube for metadata",
			slog.String("video_id", id),
			slog.String("error", err.Error()),
		)
		return md, shared.MetadataUnavailable(err)
	}

	if len(videos.Items) == 0 {
		return md, shared.ErrInvalidMetadata
	}
	item := videos.Items[0]
	if item.Snippet.Title == "" {
		return md, shared.ErrInvalidMetadata
	}

	return Metadata{
		Title:           item.Snippet.Title,
		DurationSeconds: ParseDuration(item.ContentDetails.Duration),
	}, nil
}

func (c *Client) getVideos(ctx context.Context, id string) (VideoListResponse, error) {
	var videos VideoListResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(id), nil)
	if err != nil {
		return videos, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return videos, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return videos, fmt.Errorf("unexpected status from youtube: %s", res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(&videos); err != nil {
		return videos, fmt.Errorf("failed to decode youtube response: %w", err)
	}
	return videos, nil
}
