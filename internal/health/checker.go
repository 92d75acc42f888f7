// Package health provides periodic liveness checks for the daemon:
// database reachability, data-dir sanity, and webhook configuration.
package health

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
	"github.com/fitcoach-app/fitcoach/internal/infra/sqlite"
)

// Check defines a single health check.
type Check struct {
	Name    string
	CheckFn func(ctx context.Context) error
}

// Status represents the result of a health check.
type Status struct {
	Name      string    `json:"name"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Report is the aggregate served at /health.
type Report struct {
	Healthy bool     `json:"healthy"`
	Checks  []Status `json:"checks"`
}

// Checker runs periodic health checks.
type Checker struct {
	mu       sync.RWMutex
	checks   []Check
	statuses []Status
	interval time.Duration
}

// NewChecker creates a checker with the standard checks. webhookConfigured
// is evaluated each cycle so config reloads are reflected.
func NewChecker(db *sqlite.DB, dataDir string, webhookConfigured func() bool) *Checker {
	return &Checker{
		interval: 60 * time.Second,
		checks: []Check{
			{
				Name: "sqlite",
				CheckFn: func(ctx context.Context) error {
					return db.Ping()
				},
			},
			{
				Name: "data_dir",
				CheckFn: func(ctx context.Context) error {
					return checkDataDir(dataDir)
				},
			},
			{
				Name: "webhook_config",
				CheckFn: func(ctx context.Context) error {
					if !webhookConfigured() {
						return fmt.Errorf("coach webhook URL is not configured")
					}
					return nil
				},
			},
		},
	}
}

// Run starts the health check loop. Call in a goroutine.
func (c *Checker) Run(ctx context.Context) {
	c.runAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runAll(ctx)
		}
	}
}

func (c *Checker) runAll(ctx context.Context) {
	statuses := make([]Status, len(c.checks))
	for i, check := range c.checks {
		s := Status{
			Name:      check.Name,
			CheckedAt: time.Now(),
		}
		if err := check.CheckFn(ctx); err != nil {
			s.Error = err.Error()
		} else {
			s.Healthy = true
		}
		val := 0.0
		if s.Healthy {
			val = 1.0
		}
		metrics.HealthCheckStatus.WithLabelValues(check.Name).Set(val)
		statuses[i] = s
	}

	c.mu.Lock()
	c.statuses = statuses
	c.mu.Unlock()
}

// Statuses returns the latest health check results.
func (c *Checker) Statuses() []Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Status, len(c.statuses))
	copy(out, c.statuses)
	return out
}

// Report returns the aggregate health view.
func (c *Checker) Report() Report {
	statuses := c.Statuses()
	healthy := true
	for _, s := range statuses {
		if !s.Healthy {
			healthy = false
		}
	}
	return Report{Healthy: healthy, Checks: statuses}
}

func checkDataDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("check data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
