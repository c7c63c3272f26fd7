package seed

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/meritworks/ampgsti/pkg/logger"
)

// Metals is one spot-price observation.
type Metals struct {
	GoldPrice   float64
	SilverPrice float64
	Source      string
}

// Fetcher pulls live market data, falling back to simulated values when the
// upstream sources are unreachable.
type Fetcher struct {
	client    *resty.Client
	metalsURL string
	vixURL    string
	rng       *rand.Rand
	logger    logger.Logger
}

// NewFetcher creates a market-data fetcher.
func NewFetcher(cfg *Config) *Fetcher {
	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", "ampgsti-seed/1.0")

	return &Fetcher{
		client:    client,
		metalsURL: cfg.MetalsURL,
		vixURL:    cfg.VIXURL,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger.Get().Named("fetcher"),
	}
}

type metalsResponse struct {
	Gold   float64 `json:"gold"`
	Silver float64 `json:"silver"`
}

// FetchMetals returns live gold/silver spot prices, or a simulated random
// walk around recent levels when the source fails.
func (f *Fetcher) FetchMetals(ctx context.Context) Metals {
	resp, err := f.client.R().SetContext(ctx).Get(f.metalsURL)
	if err == nil && resp.StatusCode() == 200 {
		var m metalsResponse
		if jsonErr := json.Unmarshal(resp.Body(), &m); jsonErr == nil && m.Gold > 0 && m.Silver > 0 {
			return Metals{GoldPrice: m.Gold, SilverPrice: m.Silver, Source: "metals.live"}
		}
	}
	if err != nil {
		f.logger.Warn(ctx, "metals fetch failed; simulating", logger.Error(err))
	}

	return Metals{
		GoldPrice:   2450 + f.rng.Float64()*200 - 100,
		SilverPrice: 24 + f.rng.Float64()*4 - 2,
		Source:      "simulated",
	}
}

type vixResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchVolatility returns the market volatility index, or a simulated value
// centered on calm conditions when the source fails.
func (f *Fetcher) FetchVolatility(ctx context.Context) float64 {
	resp, err := f.client.R().SetContext(ctx).Get(f.vixURL)
	if err == nil && resp.StatusCode() == 200 {
		var v vixResponse
		if jsonErr := json.Unmarshal(resp.Body(), &v); jsonErr == nil && len(v.Chart.Result) > 0 {
			if vix := v.Chart.Result[0].Meta.RegularMarketPrice; vix > 0 {
				return vix
			}
		}
	}
	if err != nil {
		f.logger.Warn(ctx, "volatility fetch failed; simulating", logger.Error(err))
	}

	vix := f.rng.NormFloat64()*5 + 20
	if vix < 5 {
		vix = 5
	}
	return vix
}

// GenerateHealth produces plausible business-health inputs. In production
// these come from surveys, NPS, and engagement systems.
func (f *Fetcher) GenerateHealth() map[string]float64 {
	base := 0.7 + f.rng.Float64()*0.2

	jitter := func(lo, hi float64) float64 {
		return lo + f.rng.Float64()*(hi-lo)
	}

	return map[string]float64{
		"retention":      base + jitter(-0.1, 0.1),
		"satisfaction":   base + jitter(-0.15, 0.1),
		"brand_trust":    base + jitter(-0.1, 0.1),
		"revenue_growth": 1.0 + jitter(-0.05, 0.15),
		"time_weight":    1.0,
		"backlash":       jitter(0.05, 0.15),
		"smoothing":      1.0,

		"consumer_satisfaction": base + jitter(0, 0.15),
		"consumer_reputation":   base + jitter(-0.05, 0.1),
		"consumer_advocacy":     base + jitter(-0.15, 0.05),
		"consumer_speed":        base + jitter(-0.1, 0.15),
		"consumer_backlash":     jitter(0.02, 0.08),
	}
}

// DetectMergerSurge simulates a merger-activity signal. A fifth of cycles
// see a surge.
func (f *Fetcher) DetectMergerSurge() bool {
	return f.rng.Float64() < 0.2
}
