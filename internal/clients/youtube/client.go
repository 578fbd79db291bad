// Package youtube provides a client for the YouTube Data API v3 search endpoint
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/glossa/internal/common"
	"github.com/bobmcallan/glossa/internal/interfaces"
	"github.com/bobmcallan/glossa/internal/models"
)

const (
	DefaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	DefaultTimeout    = 15 * time.Second
	DefaultRateLimit  = 5 // requests per second
	DefaultMaxResults = 10
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("youtube api key not configured")

// APIError is a non-OK response from the YouTube API.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("YouTube API error: status %d", e.Status)
}

// Client implements the VideoClient interface using the YouTube Data API
type Client struct {
	baseURL    string
	apiKey     string
	channelID  string
	maxResults int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithChannelID restricts searches to one channel
func WithChannelID(channelID string) ClientOption {
	return func(c *Client) {
		c.channelID = channelID
	}
}

// WithMaxResults sets the number of videos requested per search
func WithMaxResults(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// NewClient creates a new YouTube search client. An empty apiKey yields a
// client whose searches fail with ErrNotConfigured.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		maxResults: DefaultMaxResults,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// searchResponse is the subset of the search.list response we read.
type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
			Thumbnails   map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// SearchVideos runs a relevance-ordered video search on the configured channel.
func (c *Client) SearchVideos(ctx context.Context, query string) (*models.VideoSearchResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("order", "relevance")
	params.Set("key", c.apiKey)
	if c.channelID != "" {
		params.Set("channelId", c.channelID)
	}

	reqURL := c.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("query", query).Str("channel", c.channelID).Msg("YouTube search request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		// The request URL carries the key; log only the query.
		c.logger.Error().Str("query", query).Dur("elapsed", elapsed).Msg("YouTube search request failed")
		return nil, fmt.Errorf("failed to execute request: %w", redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Str("query", query).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("YouTube search non-OK response")
		return nil, &APIError{Status: resp.StatusCode}
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	videos := make([]models.Video, 0, len(apiResp.Items))
	for _, item := range apiResp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		v := models.Video{
			ID:           item.ID.VideoID,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			URL:          "https://www.youtube.com/watch?v=" + url.QueryEscape(item.ID.VideoID),
		}
		for _, size := range []string{"high", "medium", "default"} {
			if th, ok := item.Snippet.Thumbnails[size]; ok && common.IsAllowedURL(th.URL, thumbnailHosts...) {
				v.ThumbnailURL = th.URL
				break
			}
		}
		videos = append(videos, v)
	}

	c.logger.Debug().Str("query", query).Int("videos", len(videos)).Dur("elapsed", elapsed).Msg("YouTube search complete")

	return &models.VideoSearchResult{
		Query:  query,
		Count:  len(videos),
		Videos: videos,
	}, nil
}

// thumbnailHosts are the image hosts the content security policy admits.
var thumbnailHosts = []string{"ytimg.com", "youtube.com"}

// redactURLError drops the request URL, which contains the API key, from
// transport errors.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

// Ensure Client implements VideoClient
var _ interfaces.VideoClient = (*Client)(nil)
