package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// DefaultSearchLimit is the number of profiles requested per search.
const DefaultSearchLimit = 5

// GammaClient is the REST client for the Polymarket Gamma API, which
// provides market discovery, metadata, and search.
type GammaClient struct {
	baseURL     string
	searchLimit int
	httpClient  *http.Client
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
// A non-positive searchLimit falls back to DefaultSearchLimit.
func NewGammaClient(baseURL string, searchLimit int, timeout time.Duration) *GammaClient {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GammaClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		searchLimit: searchLimit,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// SearchProfiles runs a public search restricted to profiles and returns the
// candidates in the order the API ranked them.
func (g *GammaClient) SearchProfiles(ctx context.Context, query string) ([]domain.Profile, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("search_profiles", "true")
	params.Set("limit_per_type", strconv.Itoa(g.searchLimit))

	body, err := doGet(ctx, g.httpClient, g.baseURL+"/public-search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/gamma: search profiles %q: %w", query, err)
	}

	var resp APISearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("polymarket/gamma: decode search results: %w", err)
	}

	profiles := make([]domain.Profile, 0, len(resp.Profiles))
	for i := range resp.Profiles {
		profiles = append(profiles, resp.Profiles[i].ToDomainProfile())
	}
	return profiles, nil
}
