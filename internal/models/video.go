package models

import "time"

// Video is a channel video returned by the video search proxy.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	PublishedAt  time.Time `json:"published_at"`
	URL          string    `json:"url"`
}

// VideoSearchResult is the response of GET /api/videos/search.
type VideoSearchResult struct {
	Query  string  `json:"query"`
	Count  int     `json:"count"`
	Videos []Video `json:"videos"`
}
