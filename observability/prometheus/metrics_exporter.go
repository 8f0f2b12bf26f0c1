package prometheus

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/Andrej220/go-utils/threadpool"
)

// MetricsExporter adapts threadpool.MetricsPolicy to Prometheus counters.
// Install it via threadpool.Options.Metrics.
type MetricsExporter struct {
	itemsSubmittedTotal *prom.CounterVec
	itemsExecutedTotal  *prom.CounterVec
	itemsReleasedTotal  *prom.CounterVec
	itemsRejectedTotal  *prom.CounterVec

	pool string
}

var _ threadpool.MetricsPolicy = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for one
// named pool. Registering twice against the same registry reuses the
// existing collectors.
func NewMetricsExporter(namespace, pool string, reg prom.Registerer) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "threadpool"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	pool = normalizeLabel(pool, "pool")

	submittedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_submitted_total",
		Help:      "Total number of accepted item submissions.",
	}, []string{"pool"})
	executedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_executed_total",
		Help:      "Total number of item actions run.",
	}, []string{"pool"})
	releasedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_released_total",
		Help:      "Total number of items handed back via release.",
	}, []string{"pool"})
	rejectedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "items_rejected_total",
		Help:      "Total number of submissions refused during shutdown.",
	}, []string{"pool"})

	var err error
	if submittedVec, err = registerCollector(reg, submittedVec); err != nil {
		return nil, err
	}
	if executedVec, err = registerCollector(reg, executedVec); err != nil {
		return nil, err
	}
	if releasedVec, err = registerCollector(reg, releasedVec); err != nil {
		return nil, err
	}
	if rejectedVec, err = registerCollector(reg, rejectedVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		itemsSubmittedTotal: submittedVec,
		itemsExecutedTotal:  executedVec,
		itemsReleasedTotal:  releasedVec,
		itemsRejectedTotal:  rejectedVec,
		pool:                pool,
	}, nil
}

// IncSubmitted records an accepted submission.
func (m *MetricsExporter) IncSubmitted() {
	if m == nil {
		return
	}
	m.itemsSubmittedTotal.WithLabelValues(m.pool).Inc()
}

// IncExecuted records an executed action.
func (m *MetricsExporter) IncExecuted() {
	if m == nil {
		return
	}
	m.itemsExecutedTotal.WithLabelValues(m.pool).Inc()
}

// IncReleased records a released item.
func (m *MetricsExporter) IncReleased() {
	if m == nil {
		return
	}
	m.itemsReleasedTotal.WithLabelValues(m.pool).Inc()
}

// IncRejected records a rejected submission.
func (m *MetricsExporter) IncRejected() {
	if m == nil {
		return
	}
	m.itemsRejectedTotal.WithLabelValues(m.pool).Inc()
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
