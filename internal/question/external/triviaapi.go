package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TriviaAPIClient integrates with the-trivia-api.com v2 (optional API key env TRIVIA_API_KEY).
type TriviaAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewTriviaAPIClient(baseURL, apiKey string, httpClient *http.Client) *TriviaAPIClient {
	if baseURL == "" {
		baseURL = "https://the-trivia-api.com/v2"
	}
	return &TriviaAPIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: defaultHTTPClient(httpClient),
	}
}

type TriviaAPIQuestion struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
	Question   struct {
		Text string `json:"text"`
	} `json:"question"`
	Correct   string   `json:"correctAnswer"`
	Incorrect []string `json:"incorrectAnswers"`
}

// Fetch requests limit questions for one category slug.
func (c *TriviaAPIClient) Fetch(ctx context.Context, limit int, category string) ([]TriviaAPIQuestion, error) {
	values := url.Values{}
	values.Set("limit", fmt.Sprint(limit))
	if category != "" {
		values.Set("categories", category)
	}

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"X-API-Key": c.apiKey}
	}

	var payload []TriviaAPIQuestion
	if err := getJSON(ctx, c.httpClient, "triviaapi", fmt.Sprintf("%s/questions?%s", c.baseURL, values.Encode()), headers, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("triviaapi category %s: %w", category, ErrNoResults)
	}
	return payload, nil
}
