package external

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// RestCountriesClient loads the whole country list in a single call.
type RestCountriesClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRestCountriesClient(baseURL string, httpClient *http.Client) *RestCountriesClient {
	if baseURL == "" {
		baseURL = "https://restcountries.com/v3.1"
	}
	return &RestCountriesClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: defaultHTTPClient(httpClient),
	}
}

// Country is the flattened record the geography provider works with.
type Country struct {
	Name       string `json:"name"`
	FlagURL    string `json:"flag_url"`
	Capital    string `json:"capital"`
	Population int64  `json:"population"`
}

type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flags struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
	} `json:"flags"`
	Capital    []string `json:"capital"`
	Population int64    `json:"population"`
}

// All returns every country. Records without a name are skipped.
func (c *RestCountriesClient) All(ctx context.Context) ([]Country, error) {
	var payload []restCountry
	if err := getJSON(ctx, c.httpClient, "restcountries", fmt.Sprintf("%s/all?fields=name,flags,capital,population", c.baseURL), nil, &payload); err != nil {
		return nil, err
	}

	countries := make([]Country, 0, len(payload))
	for _, rc := range payload {
		if rc.Name.Common == "" {
			continue
		}
		flag := rc.Flags.PNG
		if flag == "" {
			flag = rc.Flags.SVG
		}
		var capital string
		if len(rc.Capital) > 0 {
			capital = rc.Capital[0]
		}
		countries = append(countries, Country{
			Name:       rc.Name.Common,
			FlagURL:    flag,
			Capital:    capital,
			Population: rc.Population,
		})
	}
	return countries, nil
}
