package fuelfeed

import (
	"context"
	"fmt"
	"time"

	"fuel-tracker/internal/models"

	"github.com/go-resty/resty/v2"
)

// Client fetches current station prices from the government fuel price feed.
type Client struct {
	apiURL string
	apiKey string
	client *resty.Client
}

func NewClient(apiURL, apiKey string) *Client {
	client := resty.New()
	client.SetTimeout(15 * time.Second)

	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		client: client,
	}
}

// FetchPrices retrieves the raw feed and normalizes it into observations.
// Fetch and parse failures are fatal to the caller's refresh cycle; the
// previously persisted document keeps serving reads.
func (c *Client) FetchPrices(ctx context.Context) ([]models.PriceObservation, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Accept", "application/json").
		Get(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fuel price feed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fuel price feed returned status %d", resp.StatusCode())
	}

	observations, err := ParseObservations(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to parse fuel price feed: %w", err)
	}
	return observations, nil
}
