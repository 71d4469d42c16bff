package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goodnatureofminers/hashyield-backend/internal/metrics"
	"github.com/goodnatureofminers/hashyield-backend/internal/pool"
	"github.com/goodnatureofminers/hashyield-backend/internal/tracker"
)

// newPools builds one client per "name=url" flag value.
func newPools(specs []string, timeout time.Duration, rps int) ([]tracker.PoolSource, error) {
	seen := make(map[string]struct{}, len(specs))
	pools := make([]tracker.PoolSource, 0, len(specs))
	for _, spec := range specs {
		name, baseURL, ok := strings.Cut(strings.TrimSpace(spec), "=")
		if !ok || name == "" || baseURL == "" {
			return nil, fmt.Errorf("pool %q: want name=url", spec)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("pool %q configured twice", name)
		}
		seen[name] = struct{}{}

		client, err := pool.NewClient(pool.Config{
			Name:    name,
			BaseURL: baseURL,
			Timeout: timeout,
			RPS:     rps,
		}, metrics.NewPoolClient(name))
		if err != nil {
			return nil, fmt.Errorf("init pool %s: %w", name, err)
		}
		pools = append(pools, client)
	}
	if len(pools) == 0 {
		return nil, errors.New("no pools configured")
	}
	return pools, nil
}
