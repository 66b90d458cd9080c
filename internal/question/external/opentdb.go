package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// OpenTDB response codes, see https://opentdb.com/api_config.php.
const (
	openTDBSuccess     = 0
	openTDBNoResults   = 1
	openTDBRateLimited = 5
)

// OpenTDBClient fetches questions from the Open Trivia DB (no API key).
type OpenTDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenTDBClient(baseURL string, httpClient *http.Client) *OpenTDBClient {
	if baseURL == "" {
		baseURL = "https://opentdb.com"
	}
	return &OpenTDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: defaultHTTPClient(httpClient),
	}
}

// OpenTDBQuestion is a raw item; text fields are HTML-entity encoded.
type OpenTDBQuestion struct {
	Category        string   `json:"category"`
	Type            string   `json:"type"`
	Difficulty      string   `json:"difficulty"`
	Question        string   `json:"question"`
	CorrectAnswer   string   `json:"correct_answer"`
	IncorrectAnswer []string `json:"incorrect_answers"`
}

type openTDBResponse struct {
	ResponseCode int               `json:"response_code"`
	Results      []OpenTDBQuestion `json:"results"`
}

// Fetch requests amount multiple-choice questions from one numeric category.
func (c *OpenTDBClient) Fetch(ctx context.Context, amount int, category string) ([]OpenTDBQuestion, error) {
	values := url.Values{}
	values.Set("amount", fmt.Sprint(amount))
	values.Set("type", "multiple")
	if category != "" {
		values.Set("category", category)
	}

	var payload openTDBResponse
	if err := getJSON(ctx, c.httpClient, "opentdb", fmt.Sprintf("%s/api.php?%s", c.baseURL, values.Encode()), nil, &payload); err != nil {
		return nil, err
	}

	switch payload.ResponseCode {
	case openTDBSuccess:
		return payload.Results, nil
	case openTDBRateLimited:
		return nil, fmt.Errorf("opentdb response code %d: %w", payload.ResponseCode, ErrRateLimited)
	case openTDBNoResults:
		return nil, fmt.Errorf("opentdb category %s: %w", category, ErrNoResults)
	default:
		return nil, fmt.Errorf("opentdb response code %d", payload.ResponseCode)
	}
}
