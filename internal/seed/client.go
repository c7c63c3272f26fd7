package seed

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/meritworks/ampgsti/pkg/logger"
)

// Client posts market updates and candidate registrations to a running
// instance.
type Client struct {
	client *resty.Client
	base   string
	logger logger.Logger
}

// NewClient creates an API client for the seeding run.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		client: client,
		base:   cfg.APIBase,
		logger: logger.Get().Named("client"),
	}
}

// UpdateMarket pushes one market cycle.
func (c *Client) UpdateMarket(ctx context.Context, metals Metals, vix float64, mergerSurge bool, health map[string]float64) error {
	body := map[string]any{
		"gold_price":            metals.GoldPrice,
		"silver_price":          metals.SilverPrice,
		"volatility_index":      vix,
		"merger_activity_surge": mergerSurge,
		"business_health":       health,
	}

	resp, err := c.client.R().SetContext(ctx).SetBody(body).Post(c.base + "/market/update")
	if err != nil {
		return fmt.Errorf("market update failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("market update rejected: %s: %s", resp.Status(), resp.String())
	}

	c.logger.Info(ctx, "market updated",
		logger.Float64("gold", metals.GoldPrice),
		logger.Float64("silver", metals.SilverPrice),
		logger.Float64("vix", vix),
		logger.String("source", metals.Source),
	)
	return nil
}

// RegisterCandidate submits one generated candidate. Backpressure (429) is
// reported as an error so the runner can slow down.
func (c *Client) RegisterCandidate(ctx context.Context, cand Candidate) error {
	resp, err := c.client.R().SetContext(ctx).SetBody(cand).Post(c.base + "/candidates")
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if resp.StatusCode() != 202 {
		return fmt.Errorf("registration rejected: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
