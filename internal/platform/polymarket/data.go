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

// DataClient is the REST client for the Polymarket Data API, which serves
// per-user positions and activity.
type DataClient struct {
	baseURL       string
	sizeThreshold float64
	httpClient    *http.Client
}

// NewDataClient creates a new Data API client.
//
// baseURL is the Data API root, e.g. "https://data-api.polymarket.com".
// sizeThreshold is forwarded as the sizeThreshold query parameter; zero
// returns every position including dust.
func NewDataClient(baseURL string, sizeThreshold float64, timeout time.Duration) *DataClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &DataClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		sizeThreshold: sizeThreshold,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// GetPositions returns the open positions held by the given proxy wallet.
func (d *DataClient) GetPositions(ctx context.Context, user string) ([]domain.RawPosition, error) {
	params := url.Values{}
	params.Set("user", user)
	params.Set("sizeThreshold", strconv.FormatFloat(d.sizeThreshold, 'f', -1, 64))

	body, err := doGet(ctx, d.httpClient, d.baseURL+"/positions?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("polymarket/data: get positions for %s: %w", user, err)
	}

	var apiPositions []APIPosition
	if err := json.Unmarshal(body, &apiPositions); err != nil {
		return nil, fmt.Errorf("polymarket/data: decode positions: %w", err)
	}

	out := make([]domain.RawPosition, 0, len(apiPositions))
	for i := range apiPositions {
		out = append(out, apiPositions[i].ToDomainRawPosition())
	}
	return out, nil
}
