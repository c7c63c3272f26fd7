// Package seed populates a running instance with live (or simulated) market
// data and generated candidate registrations.
package seed

import (
	"flag"
	"time"
)

// Default endpoints for live market data. Both are free and keyless; the
// fetcher falls back to simulated values when they are unreachable.
const (
	defaultMetalsURL = "https://api.metals.live/v1/spot"
	defaultVIXURL    = "https://query1.finance.yahoo.com/v8/finance/chart/%5EVIX"
)

// Config controls one seeding run.
type Config struct {
	APIBase    string
	MetalsURL  string
	VIXURL     string
	Candidates int
	Continuous bool
	Interval   time.Duration
	Timeout    time.Duration
}

// ParseFlags builds a Config from command-line flags.
func ParseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.APIBase, "api", "http://localhost:9080", "base URL of the running API")
	fs.StringVar(&cfg.MetalsURL, "metals-url", defaultMetalsURL, "spot price source for gold/silver")
	fs.StringVar(&cfg.VIXURL, "vix-url", defaultVIXURL, "volatility index source")
	fs.IntVar(&cfg.Candidates, "candidates", 25, "number of candidates to register")
	fs.BoolVar(&cfg.Continuous, "continuous", false, "keep pushing market updates until interrupted")
	fs.DurationVar(&cfg.Interval, "interval", 30*time.Second, "delay between continuous market updates")
	fs.DurationVar(&cfg.Timeout, "timeout", 5*time.Second, "per-request HTTP timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}
