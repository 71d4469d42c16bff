// Package pool reads daily earnings reports from mining pool HTTP APIs.
package pool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/pkg/safe"
	"go.uber.org/ratelimit"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRPS     = 5
)

type (
	// Metrics records metrics for pool API calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// Config describes one pool API endpoint.
type Config struct {
	Name    string
	BaseURL string
	Timeout time.Duration
	RPS     int
}

// Client fetches daily earnings per unit of hashrate from one pool.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
}

type earningsResponse struct {
	Day                uint64  `json:"day"`
	EarningsPerUnitBTC float64 `json:"earnings_per_unit_btc"`
	Hashrate           uint64  `json:"hashrate"`
}

func NewClient(cfg Config, metrics Metrics) (*Client, error) {
	if cfg.Name == "" {
		return nil, errors.New("pool name is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("pool %s base url: %w", cfg.Name, err)
	}
	if metrics == nil {
		return nil, errors.New("pool client metrics is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: ratelimit.New(cfg.RPS),
		metrics: metrics,
	}, nil
}

// Name returns the pool name.
func (c *Client) Name() string {
	return c.name
}

// DailyReport returns the pool's earnings for day, in satoshis per unit of
// hashrate, with the hashrate they were measured on.
func (c *Client) DailyReport(ctx context.Context, day uint64) (report model.PoolReport, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("daily_report", err, started)
	}()

	c.limiter.Take()

	endpoint := c.baseURL + "/v1/earnings?day=" + strconv.FormatUint(day, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.PoolReport{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.PoolReport{}, fmt.Errorf("get earnings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("get earnings: unexpected status %d", resp.StatusCode)
		return model.PoolReport{}, err
	}

	var body earningsResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.PoolReport{}, fmt.Errorf("decode earnings: %w", err)
	}

	amount, err := btcutil.NewAmount(body.EarningsPerUnitBTC)
	if err != nil {
		return model.PoolReport{}, fmt.Errorf("earnings %v: %w", body.EarningsPerUnitBTC, err)
	}
	earnings, err := safe.Uint64(amount)
	if err != nil {
		err = fmt.Errorf("negative earnings %v: %w", body.EarningsPerUnitBTC, model.ErrInvalidInput)
		return model.PoolReport{}, err
	}

	return model.PoolReport{
		Pool:     c.name,
		Day:      body.Day,
		Earnings: earnings,
		Hashrate: body.Hashrate,
	}, nil
}
