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

// TaxRateClient resolves the sales-tax rate for an event address.
// Jurisdiction lookup lives entirely in the tax collaborator; the pricing
// core only applies whatever rate is supplied.
type TaxRateClient interface {
	GetRateBasisPoints(ctx context.Context, address string) (int64, error)
}

// HTTPTaxRateClient implements TaxRateClient using HTTP.
type HTTPTaxRateClient struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	logger     *logging.Logger
}

// NewHTTPTaxRateClient creates a new HTTP-based tax rate client.
func NewHTTPTaxRateClient(cfg config.ServiceConfig) *HTTPTaxRateClient {
	return &HTTPTaxRateClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		apiKey: cfg.APIKey,
		logger: logging.NewLogger("taxrate-client"),
	}
}

// GetRateBasisPoints fetches the combined sales-tax rate for an address.
func (c *HTTPTaxRateClient) GetRateBasisPoints(ctx context.Context, address string) (int64, error) {
	c.logger.Debug("Fetching tax rate", logging.Fields{"address": address})

	endpoint := fmt.Sprintf("%s/api/v1/rates?address=%s", c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to fetch tax rate", logging.Fields{
			"address": address,
			"error":   err.Error(),
		})
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("tax service returned status %d", resp.StatusCode)
	}

	var body struct {
		RateBasisPoints int64 `json:"rate_bp"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}

	return body.RateBasisPoints, nil
}
