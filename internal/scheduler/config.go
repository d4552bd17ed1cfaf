package scheduler

import (
	"time"
)

// Config controls scheduler intervals and job gating.
type Config struct {
	// RunInterval is how often the run loop wakes up to check for due jobs.
	RunInterval time.Duration
	// CollectLookback is how far back commit collection reaches.
	CollectLookback time.Duration
	// ReportHour is the local hour (0-23) after which due reports fire.
	ReportHour int
	// JobTimeout bounds a single job execution.
	JobTimeout time.Duration
	// EnabledJobs restricts which jobs run; empty means all (monolith mode).
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		RunInterval:     time.Minute,
		CollectLookback: 7 * 24 * time.Hour,
		ReportHour:      8,
		JobTimeout:      10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.CollectLookback <= 0 {
		c.CollectLookback = defaults.CollectLookback
	}
	if c.ReportHour < 0 || c.ReportHour > 23 {
		c.ReportHour = defaults.ReportHour
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	return c
}
