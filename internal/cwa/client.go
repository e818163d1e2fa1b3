package cwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/weatherops/cwa-forecast-export/internal/common"
)

var (
	// ErrTransport covers network failures, timeouts, and undecodable
	// response bodies; the provider was never usefully reached.
	ErrTransport = errors.New("transport failure reaching forecast provider")

	// ErrAPI means the provider answered with a non-success HTTP status.
	// The response body is carried in the error for diagnostics.
	ErrAPI = errors.New("forecast provider returned an error status")
)

const (
	// DefaultBaseURL is the CWA open-data API root.
	DefaultBaseURL = "https://opendata.cwa.gov.tw/api"

	// forecastEndpoint serves the 36-hour forecast dataset.
	forecastEndpoint = "/v1/rest/datastore/F-C0032-001"

	// maxErrorBody caps how much of an error response is kept for logs.
	maxErrorBody = 4 << 10
)

// Client fetches the 36-hour forecast for a fixed list of regions in a
// single authenticated request.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	regions    []string
}

// NewClient creates a Client. The http.Client supplies the request timeout;
// an empty baseURL falls back to the public CWA endpoint.
func NewClient(httpClient *http.Client, apiKey, baseURL string, regions []string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
		regions:    regions,
	}
}

// Fetch performs one GET for all configured regions and decodes the payload.
// It makes exactly one attempt and never validates weather-element shape;
// that is the normalizer's job.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	values := url.Values{}
	values.Set("Authorization", c.apiKey)
	values.Set("locationName", strings.Join(c.regions, ","))

	u := fmt.Sprintf("%s%s?%s", c.baseURL, forecastEndpoint, values.Encode())

	log.Printf("INFO: making API request for %d locations", len(c.regions))
	log.Printf("INFO: using API key (first 5 chars): %s", common.Fingerprint(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	log.Printf("INFO: API response status code: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Printf("ERROR: API error response: %s", body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrAPI, resp.StatusCode, body)
	}

	var payload Response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response body: %v", ErrTransport, err)
	}

	log.Printf("INFO: received data success status: %q", payload.Success)
	if n := len(payload.Records.Location); n > 0 {
		log.Printf("INFO: found %d locations in response", n)
	}

	return &payload, nil
}
