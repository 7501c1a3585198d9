package config

import (
	"os"
	"time"
)

// Timeouts holds all configurable wait bounds. Each value can be
// customized via an environment variable.
type Timeouts struct {
	PollInterval time.Duration // Interval between readiness/deletion polls
	Create       time.Duration // Bound on create-and-wait-ready operations
	Delete       time.Duration // Bound on delete-and-wait-gone operations
	Workload     time.Duration // Bound on workload readiness waits
}

// LoadTimeouts loads timeout configuration from environment variables.
// If a variable is not set or invalid, a default is used.
//
// Environment Variables:
//   - GKEOPS_POLL_INTERVAL (default: 500ms)
//   - GKEOPS_TIMEOUT_CREATE (default: 30m)
//   - GKEOPS_TIMEOUT_DELETE (default: 30m)
//   - GKEOPS_TIMEOUT_WORKLOAD (default: 15m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval: parseDuration("GKEOPS_POLL_INTERVAL", 500*time.Millisecond),
		Create:       parseDuration("GKEOPS_TIMEOUT_CREATE", 30*time.Minute),
		Delete:       parseDuration("GKEOPS_TIMEOUT_DELETE", 30*time.Minute),
		Workload:     parseDuration("GKEOPS_TIMEOUT_WORKLOAD", 15*time.Minute),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
