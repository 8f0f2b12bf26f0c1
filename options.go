package threadpool

import (
	"time"
)

// DefaultKeepAlivePeriod is how long granted slots may sit without
// entering the drain loop before the pool reports lost work to the
// provider. A healthy provider schedules within tens of seconds; longer
// silences are worth flagging.
const DefaultKeepAlivePeriod = 150 * time.Second

// Options configure a Pool.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// ShutdownHandler, if set, is invoked exactly once when the pool
	// reaches terminal quiescence after Shutdown or Close. It runs with
	// the pool mutex released and may call back into the pool.
	ShutdownHandler func()

	// KeepAlivePeriod overrides DefaultKeepAlivePeriod.
	KeepAlivePeriod time.Duration

	// Metrics receives lifecycle events (submitted, executed, released,
	// rejected). Defaults to NoopMetrics.
	Metrics MetricsPolicy
}

func (o *Options) FillDefaults() {
	if o.KeepAlivePeriod <= 0 {
		o.KeepAlivePeriod = DefaultKeepAlivePeriod
	}
	if o.Metrics == nil {
		o.Metrics = &NoopMetrics{}
	}
}
