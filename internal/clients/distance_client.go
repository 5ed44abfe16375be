package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
)

// DistanceClient resolves the travel distance between two addresses. The
// pricing core never computes distances itself; this client fetches them
// from the routing collaborator before totals are computed.
type DistanceClient interface {
	GetDistanceMiles(ctx context.Context, fromAddress, toAddress string) (float64, error)
}

// HTTPDistanceClient implements DistanceClient using HTTP.
type HTTPDistanceClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.Logger
}

// NewHTTPDistanceClient creates a new HTTP-based distance client.
func NewHTTPDistanceClient(cfg config.ServiceConfig) *HTTPDistanceClient {
	return &HTTPDistanceClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logging.NewLogger("distance-client"),
	}
}

// GetDistanceMiles fetches the routed distance between two addresses.
func (c *HTTPDistanceClient) GetDistanceMiles(ctx context.Context, fromAddress, toAddress string) (float64, error) {
	c.logger.Debug("Fetching distance", logging.Fields{
		"from": fromAddress,
		"to":   toAddress,
	})

	endpoint := fmt.Sprintf("%s/api/v1/distance?from=%s&to=%s",
		c.baseURL, url.QueryEscape(fromAddress), url.QueryEscape(toAddress))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch distance", logging.Fields{
			"from":  fromAddress,
			"to":    toAddress,
			"error": err.Error(),
		})
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("distance service returned status %d", resp.StatusCode)
	}

	var body struct {
		DistanceMiles float64 `json:"distance_miles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}

	c.logger.Debug("Distance fetched", logging.Fields{"miles": body.DistanceMiles})
	return body.DistanceMiles, nil
}
