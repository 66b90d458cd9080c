package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ITunesClient queries the iTunes Search API for 30s song previews.
type ITunesClient struct {
	baseURL    string
	country    string
	httpClient *http.Client
}

func NewITunesClient(baseURL string, httpClient *http.Client) *ITunesClient {
	if baseURL == "" {
		baseURL = "https://itunes.apple.com"
	}
	return &ITunesClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		country:    "US",
		httpClient: defaultHTTPClient(httpClient),
	}
}

// ITunesTrack is the subset of track metadata the game uses.
type ITunesTrack struct {
	Kind           string `json:"kind"`
	TrackID        int64  `json:"trackId"`
	ArtistName     string `json:"artistName"`
	TrackName      string `json:"trackName"`
	CollectionName string `json:"collectionName"`
	PreviewURL     string `json:"previewUrl"`
	ReleaseDate    string `json:"releaseDate"` // RFC 3339
}

// ReleaseYear parses the leading year of ReleaseDate; 0 when absent.
func (t ITunesTrack) ReleaseYear() int {
	if len(t.ReleaseDate) < 4 {
		return 0
	}
	var year int
	if _, err := fmt.Sscanf(t.ReleaseDate[:4], "%d", &year); err != nil {
		return 0
	}
	return year
}

type iTunesResponse struct {
	ResultCount int           `json:"resultCount"`
	Results     []ITunesTrack `json:"results"`
}

// Search runs a free-text song search. attribute may be "artistTerm" to match artist names only.
func (c *ITunesClient) Search(ctx context.Context, term, attribute string, limit int) ([]ITunesTrack, error) {
	values := url.Values{}
	values.Set("term", term)
	values.Set("media", "music")
	values.Set("entity", "song")
	values.Set("limit", fmt.Sprint(limit))
	values.Set("country", c.country)
	if attribute != "" {
		values.Set("attribute", attribute)
	}

	var payload iTunesResponse
	if err := getJSON(ctx, c.httpClient, "itunes", fmt.Sprintf("%s/search?%s", c.baseURL, values.Encode()), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// Lookup fetches a track by its iTunes id.
func (c *ITunesClient) Lookup(ctx context.Context, id int64) ([]ITunesTrack, error) {
	values := url.Values{}
	values.Set("id", fmt.Sprint(id))
	values.Set("entity", "song")
	values.Set("country", c.country)

	var payload iTunesResponse
	if err := getJSON(ctx, c.httpClient, "itunes", fmt.Sprintf("%s/lookup?%s", c.baseURL, values.Encode()), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}
