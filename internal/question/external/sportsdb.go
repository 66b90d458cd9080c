package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SportsDBClient resolves football club badges through TheSportsDB team search.
type SportsDBClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSportsDBClient(baseURL string, httpClient *http.Client) *SportsDBClient {
	if baseURL == "" {
		baseURL = "https://www.thesportsdb.com/api/v1/json/3"
	}
	return &SportsDBClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: defaultHTTPClient(httpClient),
	}
}

type sportsDBTeam struct {
	Team      string `json:"strTeam"`
	Sport     string `json:"strSport"`
	Badge     string `json:"strBadge"`
	TeamBadge string `json:"strTeamBadge"`
}

type sportsDBResponse struct {
	Teams []sportsDBTeam `json:"teams"`
}

// TeamBadge returns the badge image URL of the first soccer team matching club.
func (c *SportsDBClient) TeamBadge(ctx context.Context, club string) (string, error) {
	var payload sportsDBResponse
	rawURL := fmt.Sprintf("%s/searchteams.php?t=%s", c.baseURL, url.QueryEscape(club))
	if err := getJSON(ctx, c.httpClient, "sportsdb", rawURL, nil, &payload); err != nil {
		return "", err
	}
	for _, team := range payload.Teams {
		if team.Sport != "" && !strings.EqualFold(team.Sport, "Soccer") {
			continue
		}
		if team.Badge != "" {
			return team.Badge, nil
		}
		if team.TeamBadge != "" {
			return team.TeamBadge, nil
		}
	}
	return "", fmt.Errorf("sportsdb badge for %q: %w", club, ErrNoResults)
}
