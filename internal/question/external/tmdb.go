package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TMDBClient reads the TMDB discover endpoint.
type TMDBClient struct {
	baseURL    string
	imageBase  string
	apiKey     string
	httpClient *http.Client
}

func NewTMDBClient(baseURL, imageBase, apiKey string, httpClient *http.Client) *TMDBClient {
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	if imageBase == "" {
		imageBase = "https://image.tmdb.org/t/p/w500"
	}
	return &TMDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		imageBase:  strings.TrimSuffix(imageBase, "/"),
		apiKey:     apiKey,
		httpClient: defaultHTTPClient(httpClient),
	}
}

type TMDBMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"` // YYYY-MM-DD
	PosterPath  string  `json:"poster_path"`
	VoteCount   int     `json:"vote_count"`
	Popularity  float64 `json:"popularity"`
}

type tmdbDiscoverResponse struct {
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Results    []TMDBMovie `json:"results"`
}

// PosterURL resolves a poster path against the configured image base.
func (c *TMDBClient) PosterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBase + "/" + strings.TrimPrefix(path, "/")
}

// Discover returns one page of movies sorted by vote count with at least minVotes votes.
func (c *TMDBClient) Discover(ctx context.Context, page, minVotes int) ([]TMDBMovie, error) {
	if c.apiKey == "" {
		return nil, errors.New("tmdb api key not configured")
	}
	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("sort_by", "vote_count.desc")
	values.Set("vote_count.gte", fmt.Sprint(minVotes))
	values.Set("include_adult", "false")
	values.Set("primary_release_date.lte", "2100-01-01")
	values.Set("page", fmt.Sprint(page))

	var payload tmdbDiscoverResponse
	if err := getJSON(ctx, c.httpClient, "tmdb", fmt.Sprintf("%s/discover/movie?%s", c.baseURL, values.Encode()), nil, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}
