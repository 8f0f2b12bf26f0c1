package threadpool

import (
	"time"
)

const (
	defaultRespawnAttempts = 3
	defaultInitialRespawn  = 200 * time.Millisecond
	defaultMaxRespawn      = 5 * time.Second
)

// RetryPolicy describes how often the goroutine provider paces worker
// respawns after a lost-work probe. Zero values are treated as "use
// provider defaults".
type RetryPolicy struct {
	// Attempts is the maximum number of respawn rounds per probe.
	Attempts int

	// Initial is the first backoff duration.
	Initial time.Duration

	// Max is the cap for backoff duration.
	Max time.Duration
}

// GetDefaultRP returns a pointer to the default respawn policy used by
// GoroutineProvider. Useful in tests or when constructing a provider with
// the same defaults.
func GetDefaultRP() *RetryPolicy {
	rp := RetryPolicy{
		Attempts: defaultRespawnAttempts,
		Initial:  defaultInitialRespawn,
		Max:      defaultMaxRespawn,
	}
	return &rp
}

func (rp *RetryPolicy) fillDefaults() {
	if rp.Attempts <= 0 {
		rp.Attempts = defaultRespawnAttempts
	}
	if rp.Initial <= 0 {
		rp.Initial = defaultInitialRespawn
	}
	if rp.Max <= 0 {
		rp.Max = defaultMaxRespawn
	}
}
