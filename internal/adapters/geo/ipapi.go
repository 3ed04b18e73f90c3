package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/bizdesk/auth-service/internal/ports"
)

// Client resolves public IPs against an ip-api.com style JSON endpoint.
// Lookups run on detached enrichment tasks, so the client carries its own
// conservative timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a lookup client. baseURL is the endpoint prefix without a
// trailing slash, e.g. http://ip-api.com/json.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (c *Client) Lookup(ctx context.Context, ip string) (ports.GeoLocation, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status,message,city,country,lat,lon", c.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ports.GeoLocation{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.GeoLocation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.GeoLocation{}, fmt.Errorf("geo lookup status %d", resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.GeoLocation{}, err
	}
	if payload.Status != "success" {
		return ports.GeoLocation{}, fmt.Errorf("geo lookup failed: %s", payload.Message)
	}

	return ports.GeoLocation{
		City:    payload.City,
		Country: payload.Country,
		Lat:     payload.Lat,
		Lon:     payload.Lon,
	}, nil
}
