// Package search talks to the YouTube Data API: text search with
// duration/view enrichment, plus direct-link resolution through the
// public oEmbed endpoint for deployments without an API key.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/medleyhq/medley/internal/domain"
	"github.com/medleyhq/medley/internal/logger"
	"github.com/medleyhq/medley/internal/utils"
)

const maxResults = 12

// ErrNoAPIKey means text search is unavailable. Direct link pasting
// keeps working without a key, so callers should surface this as a
// degraded mode rather than a hard failure.
var ErrNoAPIKey = errors.New("youtube api key not configured")

// ErrUpstream reports a non-OK response from the YouTube API.
var ErrUpstream = errors.New("youtube api error")

// Result is one search hit or resolved link, already formatted for
// display. Duration and Views are display strings and may be empty
// when the details lookup was unavailable.
type Result struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnail    string `json:"thumbnail"`
	Duration     string `json:"duration"`
	Views        string `json:"views"`
	PublishedAt  string `json:"publishedAt"`
}

// Config carries the client's endpoints. Zero-value URLs fall back to
// the public YouTube endpoints; tests point them at local servers.
type Config struct {
	APIKey    string
	BaseURL   string // default https://www.googleapis.com/youtube/v3
	OEmbedURL string // default https://www.youtube.com/oembed
	Timeout   time.Duration
}

// Client is the YouTube API client.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

// NewClient builds a search client.
func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if cfg.OEmbedURL == "" {
		cfg.OEmbedURL = "https://www.youtube.com/oembed"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: log,
	}
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search runs a text search and enriches the hits with duration and
// view counts. An empty query is rejected; a missing API key reports
// ErrNoAPIKey.
func (c *Client) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &domain.ValidationError{Field: "q", Reason: "must not be empty"}
	}
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	val := url.Values{}
	val.Set("part", "snippet")
	val.Set("type", "video")
	val.Set("maxResults", fmt.Sprint(maxResults))
	val.Set("q", query)
	val.Set("key", c.cfg.APIKey)

	var body ytSearchResponse
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/search?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(body.Items))
	var ids []string
	for _, it := range body.Items {
		if it.ID.VideoID == "" {
			continue
		}
		thumb := it.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = it.Snippet.Thumbnails.Default.URL
		}
		results = append(results, Result{
			VideoID:      it.ID.VideoID,
			Title:        it.Snippet.Title,
			ChannelTitle: it.Snippet.ChannelTitle,
			Thumbnail:    thumb,
			PublishedAt:  it.Snippet.PublishedAt,
		})
		ids = append(ids, it.ID.VideoID)
	}

	if len(ids) > 0 {
		details, err := c.fetchDetails(ctx, ids)
		if err != nil {
			// Results without duration/views are still usable.
			c.logger.Warn("video details lookup failed", logger.Error(err))
		} else {
			for i := range results {
				if d, ok := details[results[i].VideoID]; ok {
					results[i].Duration = d.duration
					results[i].Views = d.views
				}
			}
		}
	}

	return results, nil
}

type videoDetails struct {
	duration string
	views    string
}

type ytVideosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *Client) fetchDetails(ctx context.Context, ids []string) (map[string]videoDetails, error) {
	val := url.Values{}
	val.Set("part", "contentDetails,statistics")
	val.Set("id", strings.Join(ids, ","))
	val.Set("key", c.cfg.APIKey)

	var body ytVideosResponse
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/videos?"+val.Encode(), &body); err != nil {
		return nil, err
	}

	details := make(map[string]videoDetails, len(body.Items))
	for _, item := range body.Items {
		details[item.ID] = videoDetails{
			duration: FormatISODuration(item.ContentDetails.Duration),
			views:    FormatViewCount(item.Statistics.ViewCount),
		}
	}
	return details, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// ResolveLink turns a pasted YouTube URL into a single Result. Title,
// channel and thumbnail come from the public oEmbed endpoint; when
// that fails the result falls back to a generic title and the derived
// i.ytimg.com thumbnail, mirroring what the video id alone can give.
func (c *Client) ResolveLink(ctx context.Context, rawURL string) (Result, error) {
	videoID := ExtractVideoID(rawURL)
	if videoID == "" {
		return Result{}, &domain.ValidationError{Field: "q", Reason: "not a recognizable video link"}
	}

	result := Result{
		VideoID:   videoID,
		Title:     "YouTube Video",
		Thumbnail: DefaultThumbnail(videoID),
	}

	val := url.Values{}
	val.Set("url", rawURL)
	val.Set("format", "json")

	var oe oembedResponse
	if err := c.getJSON(ctx, c.cfg.OEmbedURL+"?"+val.Encode(), &oe); err != nil {
		c.logger.Warn("oembed lookup failed, using derived defaults",
			logger.String("video_id", videoID), logger.Error(err))
		return result, nil
	}

	if oe.Title != "" {
		result.Title = oe.Title
	}
	result.ChannelTitle = oe.AuthorName
	if oe.ThumbnailURL != "" {
		result.Thumbnail = oe.ThumbnailURL
	}
	return result, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
